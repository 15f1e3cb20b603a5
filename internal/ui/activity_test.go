package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/bantin/internal/otel"
)

func TestRenderActivityNil(t *testing.T) {
	if got := RenderActivity(nil, time.Now(), 20); !strings.Contains(got, "chưa được bật") {
		t.Errorf("RenderActivity(nil) = %q", got)
	}
}

func TestRenderActivity(t *testing.T) {
	now := time.Now()
	ring := otel.NewRingBuffer(8)
	ring.Push(otel.Event{Time: now.Add(-4 * time.Second), Kind: otel.KindFetchError, Source: "Tuổi Trẻ", Err: "503"})
	ring.Push(otel.Event{Time: now.Add(-3 * time.Second), Kind: otel.KindFetchComplete, Count: 27})
	ring.Push(otel.Event{Time: now.Add(-time.Second), Kind: otel.KindWeatherError, Source: "Cần Thơ", Err: "timeout"})

	got := RenderActivity(ring, now, 20)
	for _, want := range []string{
		"1 lần tải, 0 lần thất bại, 1 nguồn lỗi",
		"lần cuối 3.0s trước, 27 tin",
		"0 cập nhật, 1 lỗi",
		"n=27", "Cần Thơ", "ERR:timeout",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	// newest first
	if strings.Index(got, "weather.error") > strings.Index(got, "fetch.complete") {
		t.Error("events not newest first")
	}
}

func TestRenderActivityEmpty(t *testing.T) {
	got := RenderActivity(otel.NewRingBuffer(8), time.Now(), 20)
	if !strings.Contains(got, "Chưa có sự kiện") {
		t.Errorf("empty ring rendered:\n%s", got)
	}
	if strings.Contains(got, "lần cuối") {
		t.Error("last fetch shown before any fetch")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{3 * time.Minute, "3m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("Thành phố Hồ Chí Minh", 10); got != "Thành p..." {
		t.Errorf("truncateRunes() = %q", got)
	}
	if got := truncateRunes("Huế", 10); got != "Huế" {
		t.Errorf("truncateRunes() = %q", got)
	}
}
