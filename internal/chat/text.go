package chat

import "strings"

// collapseWhitespace folds every run of whitespace (including newlines) into
// a single space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// clipRunes bounds s to max runes, appending an ellipsis when it had to cut.
func clipRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// clipRunesHard is clipRunes without the ellipsis marker.
func clipRunesHard(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clipField(s string, max int) string {
	return clipRunes(collapseWhitespace(s), max)
}
