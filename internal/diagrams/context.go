package diagrams

import "strings"

// fallbackContextChars bounds the excerpt when no keyword is found in the
// narration text.
const fallbackContextChars = 500

// topicContext extracts the words surrounding each keyword's first
// occurrence in the narration (contextWords on each side), concatenated in
// keyword order. The match is a case-insensitive substring test so "caching"
// still anchors the keyword "cache". Falls back to the head of the narration
// when nothing matches.
func topicContext(keywords []string, narration string, contextWords int) string {
	words := strings.Fields(narration)
	if len(words) == 0 {
		return narration
	}

	var excerpts []string
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		for i, w := range words {
			if !strings.Contains(strings.ToLower(w), lower) {
				continue
			}
			start := i - contextWords
			if start < 0 {
				start = 0
			}
			end := i + contextWords + 1
			if end > len(words) {
				end = len(words)
			}
			excerpts = append(excerpts, strings.Join(words[start:end], " "))
			break
		}
	}

	if len(excerpts) == 0 {
		if len(narration) > fallbackContextChars {
			return narration[:fallbackContextChars]
		}
		return narration
	}
	return strings.Join(excerpts, " ")
}
