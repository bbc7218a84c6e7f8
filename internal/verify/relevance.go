package verify

import (
	"math"
	"strings"
)

// The thresholds here are policy, not load-bearing business logic; they are
// grouped so tuning stays local to this file.
const (
	minTokenLen     = 3  // tokens this short carry no signal
	minNameMatches  = 2  // name tokens required in obituary mode (or fewer for short names)
	genericMinRatio = 0.5
)

var deathTerms = []string{"morte", "falecimento", "faleceu", "morreu", "óbito"}

var namePrefixes = []string{
	"morte de ", "falecimento de ",
	"morte do ", "falecimento do ",
	"morte da ", "falecimento da ",
}

var fakeNewsIndicators = []string{
	"fake news", "notícia falsa", "boato", "desmentiu",
	"não morreu", "está vivo", "desmente", "rumor falso",
}

var aliveIndicators = []string{
	"está vivo", "não morreu", "desmentiu", "fake news",
	"notícia falsa", "boato", "continua vivo", "desmente boato",
}

var sensitiveTerms = []string{
	"morte", "falecimento", "faleceu", "morreu", "assassinato", "acidente fatal",
}

// Relevance scores candidate texts against one keyword. Obituary mode is
// activated by death-related terms and applies stricter name matching.
type Relevance struct {
	keyword    string
	tokens     []string
	IsObituary bool
	Subject    string
}

// NewRelevance builds the predicate for a keyword.
func NewRelevance(keyword string) *Relevance {
	lower := strings.ToLower(keyword)

	r := &Relevance{keyword: lower}
	for _, tok := range strings.Fields(lower) {
		if len(tok) > minTokenLen {
			r.tokens = append(r.tokens, tok)
		}
	}

	for _, term := range deathTerms {
		if strings.Contains(lower, term) {
			r.IsObituary = true
			break
		}
	}
	if r.IsObituary {
		r.Subject = subjectName(lower)
	}
	return r
}

// subjectName strips known prefixes to isolate the person's name.
func subjectName(keyword string) string {
	name := keyword
	for _, prefix := range namePrefixes {
		name = strings.Replace(name, prefix, "", 1)
	}
	return strings.TrimSpace(name)
}

// Matches applies the mode-specific predicate to a candidate text.
func (r *Relevance) Matches(text string) bool {
	text = strings.ToLower(text)

	if r.IsObituary && r.Subject != "" {
		nameParts := strings.Fields(r.Subject)
		matches := 0
		for _, part := range nameParts {
			if len(part) > minTokenLen && strings.Contains(text, part) {
				matches++
			}
		}
		required := int(math.Min(float64(minNameMatches), float64(len(nameParts))))
		if matches < required {
			return false
		}
		for _, term := range deathTerms {
			if strings.Contains(text, term) {
				return true
			}
		}
		return false
	}

	if len(r.tokens) == 0 {
		return false
	}
	score := 0
	for _, tok := range r.tokens {
		if strings.Contains(text, tok) {
			score++
		}
	}
	required := int(math.Ceil(float64(len(r.tokens)) * genericMinRatio))
	return score >= required
}

// HasFalseIndicators reports whether text contains a fake-news indicator
// co-occurring with the subject's name.
func (r *Relevance) HasFalseIndicators(text string, indicators []string) bool {
	if r.Subject == "" {
		return false
	}
	text = strings.ToLower(text)
	if !strings.Contains(text, r.Subject) {
		return false
	}
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// IsSensitiveTopic reports whether a keyword matches the sensitive-topic
// heuristics that forbid returning synthetic articles unverified.
func IsSensitiveTopic(keyword string) bool {
	lower := strings.ToLower(keyword)
	for _, term := range sensitiveTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
