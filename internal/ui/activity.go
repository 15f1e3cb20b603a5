package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/bantin/internal/otel"
)

// RenderActivity renders pipeline counters and the most recent events.
// Pure function. Returns a placeholder if ring is nil.
func RenderActivity(ring *otel.RingBuffer, now time.Time, height int) string {
	if ring == nil {
		return Muted.Render("Nhật ký hoạt động chưa được bật.")
	}

	sum := ring.Summary()

	var lines []string
	lines = append(lines, Label.Render("Thống kê"))
	lines = append(lines, fmt.Sprintf("  Tin RSS:   %d lần tải, %d lần thất bại, %d nguồn lỗi",
		sum.FetchCycles, sum.FailedCycles, sum.FeedErrors))
	if !sum.LastFetch.IsZero() {
		lines = append(lines, fmt.Sprintf("             lần cuối %s trước, %d tin",
			formatAge(now.Sub(sum.LastFetch)), sum.LastFetchCount))
	}
	lines = append(lines, fmt.Sprintf("  Thời tiết: %d cập nhật, %d lỗi",
		sum.WeatherUpdates, sum.WeatherErrors))
	lines = append(lines, fmt.Sprintf("  Tin AI:    %d yêu cầu, %d xong, %d lỗi, %d gợi ý chính tả",
		sum.Generations, sum.GenerationsDone, sum.GenerationErrors, sum.Suggestions))
	lines = append(lines, "")

	lines = append(lines, Label.Render("Gần đây"))
	recent := height - len(lines) - 1
	if recent < 1 {
		recent = 1
	}
	events := ring.Recent(recent)
	if len(events) == 0 {
		lines = append(lines, Muted.Render("  Chưa có sự kiện."))
	}
	for _, e := range events {
		lines = append(lines, eventLine(e, now))
	}
	return strings.Join(lines, "\n")
}

func eventLine(e otel.Event, now time.Time) string {
	line := fmt.Sprintf("  %6s  %-18s", formatAge(now.Sub(e.Time)), string(e.Kind))
	if e.Source != "" {
		line += "  " + truncateRunes(e.Source, 20)
	}
	if e.Count > 0 {
		line += fmt.Sprintf("  n=%d", e.Count)
	}
	if e.Dur > 0 {
		line += "  " + formatAge(e.Dur)
	}
	if e.Msg != "" {
		line += "  " + truncateRunes(e.Msg, 40)
	}
	if e.Err != "" {
		return ErrorStyle.UnsetPadding().Render(line + "  ERR:" + truncateRunes(e.Err, 40))
	}
	return line
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
