package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/bantin/internal/app"
	"github.com/abelbrown/bantin/internal/model"
	"github.com/abelbrown/bantin/internal/weather"
)

// RenderTicker renders the ticker bar: clock, the tag badge in breaking mode,
// then the scrolling window.
func RenderTicker(s app.State, now time.Time, scroll func(width int) string, width int) string {
	p := paletteFor(s.Mourning, s.Festive)

	left := p.Clock.Render(now.Format("15:04"))
	if s.Mode == model.ModeBreaking {
		left += p.Badge.Render(s.BreakingTag)
	}
	left += p.Bar.Render(" ")

	rest := width - lipgloss.Width(left)
	if rest < 0 {
		rest = 0
	}
	return left + p.Bar.Render(scroll(rest))
}

// WeatherLine is the plain text of the weather bar.
func WeatherLine(city string, w *model.WeatherData) string {
	if city == "" {
		return ""
	}
	if w == nil {
		return fmt.Sprintf("%s  %s", city, weather.NoData)
	}
	return fmt.Sprintf("%s %s  %d°C - %d°C  %s  Độ ẩm %d%%  Khả năng mưa %d%%",
		weather.Icon(w.WeatherCode), city,
		w.TempMin, w.TempMax,
		weather.Describe(w.WeatherCode),
		w.Humidity, w.RainChance)
}

// RenderWeather renders the weather bar shifted right by offset cells.
func RenderWeather(s app.State, offset, width int) string {
	p := paletteFor(s.Mourning, s.Festive)
	if offset < 0 {
		offset = 0
	}
	line := strings.Repeat(" ", offset) + WeatherLine(s.WeatherCity, s.Weather)
	return p.Weather.Width(width).MaxWidth(width).Render(line)
}

// RenderCandidates renders the curation list with the cursor row kept visible
// in height lines. Each candidate takes two lines.
func RenderCandidates(p model.PendingSelection, isSelected func(int) bool, cursor, width, height int) string {
	if len(p.Candidates) == 0 {
		return ""
	}

	perPage := height / 2
	if perPage < 1 {
		perPage = 1
	}
	offset := 0
	if cursor >= perPage {
		offset = cursor - perPage + 1
	}

	var b strings.Builder
	for i := offset; i < len(p.Candidates) && i < offset+perPage; i++ {
		c := p.Candidates[i]
		mark := "[ ]"
		if isSelected(i) {
			mark = Checkmark.Render("[x]")
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, c.Headline)
		if i == cursor {
			b.WriteString(SelectedItem.MaxWidth(width).Render(line))
		} else {
			b.WriteString(NormalItem.MaxWidth(width).Render(line))
		}
		b.WriteString("\n")
		b.WriteString(Summary.MaxWidth(width).Render(c.Summary))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCitations renders the sources the AI consulted.
func RenderCitations(cites []model.Citation, width int) string {
	if len(cites) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Label.Render("Nguồn tham khảo"))
	b.WriteString("\n")
	for _, c := range cites {
		b.WriteString(Citation.MaxWidth(width).Render("• " + c.Title + "  " + c.URI))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTabs renders the console tab strip.
func RenderTabs(active tab) string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == active {
			parts = append(parts, TabActive.Render(label))
		} else {
			parts = append(parts, TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// RenderStatusBar renders the bottom status bar with mode and key hints.
func RenderStatusBar(s app.State, hints [][2]string, width int) string {
	left := " " + modeLabel(s.Mode) + " "
	if s.Fetching {
		left += "· đang tải "
	}

	keys := make([]string, 0, len(hints))
	for _, h := range hints {
		keys = append(keys, StatusBarKey.Render(h[0])+StatusBarText.Render(":"+h[1]))
	}
	keyHints := strings.Join(keys, " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(keyHints) - 2
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + keyHints)
}

func modeLabel(m model.NewsMode) string {
	switch m {
	case model.ModeCustom:
		return "Tùy chỉnh"
	case model.ModeBreaking:
		return "Tin khẩn"
	default:
		return "Tổng hợp"
	}
}
