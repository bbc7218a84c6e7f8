package social

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector cascades for the rendered Instagram DOM. Each extraction step is a
// pure function over a snapshot so the strategies stay testable without a
// browser.

var postTextSelectors = []string{
	`article div[data-testid="post-text"]`,
	`article span[style*="line-height"]`,
	`article div h1`,
	`div[role="button"] span`,
	`article span:not([role])`,
	`span[dir="auto"]`,
	`div[data-testid="post-text"] span`,
	`article div span`,
	`div[role="dialog"] span`,
	`div[style*="word-wrap"] span`,
}

var authorSelectors = []string{
	`article header a`,
	`header span[dir="auto"]`,
	`a[role="link"] span`,
}

var commentSelectors = []string{
	`article div[role="button"] span`,
	`div[data-testid="comment"] span`,
	`article span[dir="auto"]`,
	`ul li article div span`,
	`ul li div span[dir="auto"]`,
	`section > div > div span`,
	`div[style*="line-height"] span`,
	`li[role="menuitem"] span`,
	`div[aria-label*="Comment"] span`,
	`div[data-testid="Caption"] ~ div span`,
}

// UI chrome strings that disqualify a candidate comment.
var chromeTerms = []string{
	"curtir", "responder", "ver tradução", "seguindo", "followers",
	"ver mais", "mostrar mais", "ago", "seguir", "curtidas",
	"curtiu por", "e outras", "pessoas curtiram", "ver todas",
	"comentários", "adicionar comentário", "publicar", "curtido por",
	"visualizar perfil", "há ", " min", " sem", " dia", " dias",
	"áudio original", "música original", "som original",
}

var letterRe = regexp.MustCompile(`[a-zA-ZÀ-ÿ]`)

const (
	minCommentLen = 4
	maxCommentLen = 500
	maxComments   = 15
	minPostLen    = 10
)

// VideoSignals describes what the rendered page says about video content.
type VideoSignals struct {
	HasVideoElement bool
	IsReel          bool
	IsTV            bool
}

// IsVideoContent reports whether any signal points at video.
func (v VideoSignals) IsVideoContent() bool {
	return v.HasVideoElement || v.IsReel || v.IsTV
}

// DetectVideo inspects the snapshot and the URL for video markers.
func DetectVideo(doc *goquery.Document, pageURL string) VideoSignals {
	return VideoSignals{
		HasVideoElement: doc.Find("video").Length() > 0,
		IsReel:          strings.Contains(pageURL, "/reel/"),
		IsTV:            strings.Contains(pageURL, "/tv/"),
	}
}

// ExtractAuthor returns the first non-empty match of the author cascade.
func ExtractAuthor(doc *goquery.Document) string {
	for _, sel := range authorSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// ExtractPostText returns the longest qualifying match of the post-text
// cascade, then the og:description meta tag, then any JSON-LD description.
func ExtractPostText(doc *goquery.Document) string {
	var post string
	for _, sel := range postTextSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > len(post) && len(text) > minPostLen {
				post = text
			}
		})
	}
	if len(post) > minPostLen {
		return post
	}

	if meta, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if meta = strings.TrimSpace(meta); len(meta) > minPostLen {
			return meta
		}
	}

	var ldDesc string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload struct {
			Description string `json:"description"`
		}
		if err := json.Unmarshal([]byte(s.Text()), &payload); err == nil {
			if desc := strings.TrimSpace(payload.Description); len(desc) > minPostLen {
				ldDesc = desc
				return false
			}
		}
		return true
	})
	return ldDesc
}

// IsValidComment applies the comment-validity predicate: length bounds, at
// least one letter, no UI chrome terms and not the post author's name.
func IsValidComment(text, author string) bool {
	if len(text) <= minCommentLen-1 || len(text) >= maxCommentLen {
		return false
	}
	if !letterRe.MatchString(text) {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range chromeTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	if author != "" && strings.Contains(lower, strings.ToLower(author)) {
		return false
	}
	return true
}

// ExtractComments applies three escalating strategies until enough valid
// comments are found. Ordering reflects discovery order; duplicates by
// normalized text are excluded; the list is capped at 15.
func ExtractComments(doc *goquery.Document, author string) []string {
	var comments []string
	seen := make(map[string]bool)

	collect := func(_ int, s *goquery.Selection) {
		if len(comments) >= maxComments {
			return
		}
		text := strings.TrimSpace(s.Text())
		norm := normalizeComment(text)
		if IsValidComment(text, author) && !seen[norm] {
			seen[norm] = true
			comments = append(comments, text)
		}
	}

	for _, sel := range commentSelectors {
		doc.Find(sel).Each(collect)
	}

	// Broad scan over all text-bearing spans, skipping obvious UI containers.
	if len(comments) < 5 {
		doc.Find("span").Each(func(i int, s *goquery.Selection) {
			parentClass := s.Parent().AttrOr("class", "")
			if strings.Contains(parentClass, "button") ||
				strings.Contains(parentClass, "nav") ||
				strings.Contains(parentClass, "header") {
				return
			}
			collect(i, s)
		})
	}

	// Structural scan of list items.
	if len(comments) < 3 {
		doc.Find(`ul li span[dir="auto"], ol li span[dir="auto"]`).Each(collect)
	}

	return comments
}

func normalizeComment(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// FallbackPostText is the coarse second-session heuristic: the first body
// text line long enough to look like content and free of UI chrome.
func FallbackPostText(bodyText string) string {
	for _, line := range strings.Split(bodyText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 &&
			!strings.Contains(line, "Instagram") &&
			!strings.Contains(line, "Seguir") &&
			!strings.Contains(line, "Curtir") {
			return line
		}
	}
	return ""
}
