package headlines

import (
	"fmt"
	"strings"
)

// MinHeadlines is the batch size every prompt asks for.
const MinHeadlines = 30

// severeWeatherKeywords trigger the hazard-first prompt. Matched as
// lowercase substrings of the topic.
var severeWeatherKeywords = []string{
	"bão", "áp thấp", "lũ", "lụt", "thiên tai",
	"storm", "typhoon", "hurricane", "cyclone", "flood",
	"tropical depression", "disaster",
}

// IsSevereWeather reports whether topic is about a weather hazard.
func IsSevereWeather(topic string) bool {
	t := strings.ToLower(topic)
	for _, kw := range severeWeatherKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// BuildPrompt writes the generation instruction for topic. The prompt always
// asks for at least MinHeadlines items; a positive count is only a hint on
// how many the ticker needs.
func BuildPrompt(topic string, count int, language string) string {
	if language == "" {
		language = "Vietnamese"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Use Google Search to find the MOST RECENT news (prefer the last 3 hours) about %q. ", topic)
	fmt.Fprintf(&b, "Acting as a news editor, write AT LEAST %d distinct news summaries based on what you find.", MinHeadlines)
	if count > 0 {
		fmt.Fprintf(&b, " The ticker needs about %d of them, so order them from most to least important.", count)
	}
	b.WriteString("\n\n")

	if IsSevereWeather(topic) {
		b.WriteString("PRIORITY FOR SEVERE WEATHER:\n")
		b.WriteString("- First 10 items: quantitative facts only. Exact position of the storm centre (latitude, longitude), maximum sustained wind, direction and speed of movement, and rainfall forecasts for the affected provinces and cities.\n")
		b.WriteString("- Remaining items: government direction and response, evacuations, and damage reports if any.\n\n")
	}

	b.WriteString("Each item must be a JSON object with:\n")
	b.WriteString(`1. "headline": a very short, punchy headline in UPPER CASE.` + "\n")
	b.WriteString(`2. "summary": a fuller summary (1-2 sentences) with the key facts.` + "\n\n")
	fmt.Fprintf(&b, "Write every headline and summary in %s.\n\n", language)

	b.WriteString("IMPORTANT: return only a JSON array of these objects. The JSON MUST be valid; escape any double quote inside a string as \\\".\n")
	b.WriteString("Wrap the whole response in a single JSON code block, like this:\n")
	b.WriteString("```json\n")
	b.WriteString("[\n")
	b.WriteString(`  { "headline": "...", "summary": "..." },` + "\n")
	b.WriteString(`  { "headline": "...", "summary": "..." }` + "\n")
	b.WriteString("]\n")
	b.WriteString("```\n")
	b.WriteString("Do not add any text outside the code block.")

	return b.String()
}
