package display

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/bantin/internal/model"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name       string
		mode       model.NewsMode
		syndicated []string
		custom     []string
		breaking   []string
		err        string
		want       string
	}{
		{
			name: "empty breaking shows placeholder",
			mode: model.ModeBreaking,
			want: LoadingPlaceholder,
		},
		{
			name: "syndicated error wins",
			mode: model.ModeSyndicated,
			err:  "X failed",
			want: "X failed",
		},
		{
			name:       "syndicated error wins over titles",
			mode:       model.ModeSyndicated,
			syndicated: []string{"A"},
			err:        "X failed",
			want:       "X failed",
		},
		{
			name:     "error ignored outside syndicated",
			mode:     model.ModeBreaking,
			breaking: []string{"Storm approaching"},
			err:      "X failed",
			want:     "Storm approaching",
		},
		{
			name: "empty syndicated shows placeholder",
			mode: model.ModeSyndicated,
			want: LoadingPlaceholder,
		},
		{
			name:   "empty custom shows placeholder",
			mode:   model.ModeCustom,
			custom: nil,
			want:   LoadingPlaceholder,
		},
		{
			name:       "trims and strips one period",
			mode:       model.ModeSyndicated,
			syndicated: []string{"  Một.  ", "Hai..", "Ba"},
			want:       "Một" + Separator + "Hai." + Separator + "Ba",
		},
		{
			name:       "only the active mode is rendered",
			mode:       model.ModeCustom,
			syndicated: []string{"syn"},
			custom:     []string{"first", "second"},
			breaking:   []string{"brk"},
			want:       "first" + Separator + "second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.mode, tt.syndicated, tt.custom, tt.breaking, tt.err)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeparator(t *testing.T) {
	if !strings.Contains(Separator, "•") {
		t.Fatalf("Separator %q has no bullet", Separator)
	}
	if strings.Contains(Separator, " ") {
		t.Errorf("Separator %q contains breakable spaces", Separator)
	}
	if n := strings.Count(Separator, " "); n != 24 {
		t.Errorf("Separator has %d non-breaking spaces, want 24", n)
	}
}

func TestMarqueeViewWidth(t *testing.T) {
	m := NewMarquee(12)
	m.SetText("Bão số 3 đổ bộ Quảng Ninh")

	for _, width := range []int{1, 10, 40, 80} {
		got := m.View(width)
		if w := runewidth.StringWidth(got); w != width {
			t.Errorf("View(%d) width = %d (%q)", width, w, got)
		}
	}
}

func TestMarqueeEmpty(t *testing.T) {
	m := NewMarquee(12)
	if got := m.View(5); got != "     " {
		t.Errorf("View(5) on empty = %q", got)
	}
	if got := m.View(0); got != "" {
		t.Errorf("View(0) = %q", got)
	}
	m.Advance(time.Second)
	if m.Offset() != 0 {
		t.Errorf("Offset() = %d after advancing empty marquee", m.Offset())
	}
}

func TestMarqueeAdvance(t *testing.T) {
	m := NewMarquee(12)
	m.SetText("abcdefghijklmnopqrstuvwxyz")

	m.Advance(time.Second)
	if m.Offset() != 12 {
		t.Fatalf("Offset() = %d after 1s at 12cps, want 12", m.Offset())
	}
	if got := m.View(3); got != "mno" {
		t.Errorf("View(3) = %q, want %q", got, "mno")
	}

	// Sub-step ticks accumulate
	m.Advance(50 * time.Millisecond)
	m.Advance(50 * time.Millisecond)
	if m.Offset() != 13 {
		t.Errorf("Offset() = %d after two 50ms ticks, want 13", m.Offset())
	}
}

func TestMarqueeWraps(t *testing.T) {
	m := NewMarquee(10)
	m.SetText("ab")

	// cycle is len(text)+Gap = 10 runes, exactly one second
	m.Advance(time.Second)
	if m.Offset() != 0 {
		t.Errorf("Offset() = %d after one full cycle, want 0", m.Offset())
	}

	m.Advance(time.Second + 100*time.Millisecond)
	if got := m.View(3); got != "b  " {
		t.Errorf("View(3) = %q, want %q", got, "b  ")
	}
}

func TestMarqueeSetTextSameKeepsOffset(t *testing.T) {
	m := NewMarquee(12)
	m.SetText("hello world")
	m.Advance(500 * time.Millisecond)
	before := m.Offset()

	m.SetText("hello world")
	if m.Offset() != before {
		t.Errorf("Offset() reset on identical text: %d -> %d", before, m.Offset())
	}

	m.SetText("new text")
	if m.Offset() != 0 {
		t.Errorf("Offset() = %d after new text, want 0", m.Offset())
	}
}
