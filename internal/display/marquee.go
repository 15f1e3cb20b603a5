package display

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Gap is the blank run between the end of the text and its next pass.
const Gap = 8

// Marquee is a right-to-left scrolling window over a display string.
// Offsets count runes, widths count terminal cells, so Vietnamese diacritics
// and wide glyphs scroll at the same visual pace as ASCII.
type Marquee struct {
	text   []rune
	offset int
	carry  time.Duration

	// CharsPerSecond is the scroll speed
	CharsPerSecond int
}

// NewMarquee returns a marquee scrolling at cps characters per second.
func NewMarquee(cps int) *Marquee {
	if cps <= 0 {
		cps = 12
	}
	return &Marquee{CharsPerSecond: cps}
}

// SetText replaces the scrolled string. The position restarts only when the
// text actually changes.
func (m *Marquee) SetText(s string) {
	if string(m.text) == s {
		return
	}
	m.text = []rune(s)
	m.offset = 0
	m.carry = 0
}

// Text returns the scrolled string.
func (m *Marquee) Text() string {
	return string(m.text)
}

// Offset returns the current rune offset into the text plus gap.
func (m *Marquee) Offset() int {
	return m.offset
}

// Advance moves the window forward by the number of whole characters that
// fit into elapsed at the configured speed. Leftover time carries over.
func (m *Marquee) Advance(elapsed time.Duration) {
	if len(m.text) == 0 || elapsed <= 0 {
		return
	}
	step := time.Second / time.Duration(m.CharsPerSecond)
	m.carry += elapsed
	n := int(m.carry / step)
	m.carry -= time.Duration(n) * step
	m.offset = (m.offset + n) % m.cycle()
}

func (m *Marquee) cycle() int {
	return len(m.text) + Gap
}

// View returns exactly width cells of the loop starting at the current offset.
func (m *Marquee) View(width int) string {
	if width <= 0 {
		return ""
	}
	if len(m.text) == 0 {
		return strings.Repeat(" ", width)
	}

	loop := make([]rune, 0, m.cycle())
	loop = append(loop, m.text...)
	for i := 0; i < Gap; i++ {
		loop = append(loop, ' ')
	}

	var b strings.Builder
	used := 0
	for i := 0; used < width; i++ {
		r := loop[(m.offset+i)%len(loop)]
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// combining marks attach to the previous cell
			b.WriteRune(r)
			continue
		}
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}
