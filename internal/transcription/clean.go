package transcription

import (
	"regexp"
	"strings"
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	normalizeRe     = regexp.MustCompile(`[^a-zà-ÿ\s]`)
)

// Clean removes the artifacts speech models tend to produce: repeated
// sentences, long runs of the same word and stray whitespace. Cleaning is
// idempotent.
func Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	sentences := sentenceSplitRe.Split(text, -1)
	seen := make(map[string]bool)
	var unique []string
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		normalized := strings.TrimSpace(normalizeRe.ReplaceAllString(strings.ToLower(sentence), ""))
		if len(normalized) > 5 && !seen[normalized] {
			seen[normalized] = true
			unique = append(unique, sentence)
		}
	}

	cleaned := strings.Join(unique, ". ")
	cleaned = collapseRepeatedWords(cleaned, 4)
	return strings.Join(strings.Fields(cleaned), " ")
}

// collapseRepeatedWords reduces any run of minRun or more consecutive equal
// words (case-insensitive) to a single occurrence.
func collapseRepeatedWords(text string, minRun int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var out []string
	i := 0
	for i < len(words) {
		j := i + 1
		for j < len(words) && strings.EqualFold(words[j], words[i]) {
			j++
		}
		run := j - i
		if run >= minRun {
			out = append(out, words[i])
		} else {
			out = append(out, words[i:j]...)
		}
		i = j
	}
	return strings.Join(out, " ")
}
