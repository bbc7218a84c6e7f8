// Package article implements the structured page extractor used for generic
// article URLs: fetch, strip boilerplate, pick the best content region among
// candidate selectors, fall back to readability and finally to the whole
// document text.
package article

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/redacaolab/redator/internal/apperr"
	"github.com/redacaolab/redator/internal/types"
)

const (
	fetchTimeout = 15 * time.Second
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// A region shorter than this is not accepted as main content.
	minRegionChars = 100
	// Below this the whole extraction fails with InsufficientContent.
	minContentChars = 50
)

// Candidate content-region selectors, evaluated in order; the longest
// extracted text wins.
var contentSelectors = []string{
	"article",
	".content",
	".post-content",
	".entry-content",
	".article-content",
	"main",
	".main-content",
	".post",
	".article",
	".news-content",
	".materia-content",
	".page-content",
	"#content",
	".content-area",
}

// Non-content regions removed before any text extraction.
var boilerplateSelectors = "script, style, nav, footer, header, aside, .sidebar, .advertisement, .ads, .cookie-banner, .popup"

// Extractor fetches and extracts generic article pages.
type Extractor struct {
	client *http.Client
}

func NewExtractor() *Extractor {
	return &Extractor{client: &http.Client{Timeout: fetchTimeout}}
}

// Extract fetches url and returns its main content. Transport errors are
// translated into the caller-facing taxonomy.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*types.ExtractionResult, error) {
	rawURL = NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.NotFound(rawURL)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, translateFetchError(rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, apperr.Forbidden()
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound(rawURL)
	case resp.StatusCode >= 400:
		return nil, apperr.Upstream(fmt.Sprintf("o site retornou status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("a URL não retornou conteúdo válido", err)
	}

	return extractFromDocument(doc, rawURL)
}

// extractFromDocument runs the selector cascade over an already parsed page.
// Split out so tests can feed fixture HTML without a server.
func extractFromDocument(doc *goquery.Document, rawURL string) (*types.ExtractionResult, error) {
	doc.Find(boilerplateSelectors).Remove()

	var content string
	for _, sel := range contentSelectors {
		text := strings.TrimSpace(doc.Find(sel).Text())
		if len(text) > len(content) {
			content = text
		}
	}

	if len(content) < minRegionChars {
		if html, err := doc.Html(); err == nil {
			if art, err := readability.FromReader(strings.NewReader(html), nil); err == nil {
				if text := strings.TrimSpace(art.TextContent); len(text) > len(content) {
					content = text
				}
			}
		}
	}

	if len(content) < minRegionChars {
		content = CollapseWhitespace(doc.Find("body").Text())
	} else {
		content = CollapseWhitespace(content)
	}

	if len(content) < minContentChars {
		return nil, apperr.InsufficientContent()
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		if u, err := url.Parse(rawURL); err == nil {
			title = u.Hostname()
		}
	}

	return &types.ExtractionResult{
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		URL:       rawURL,
	}, nil
}

// NormalizeURL prepends https:// to scheme-less URLs.
func NormalizeURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}

// CollapseWhitespace folds runs of whitespace into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func translateFetchError(rawURL string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return apperr.NotFound(rawURL)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Timeout("o site")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout("o site")
	}
	if strings.Contains(err.Error(), "connection refused") {
		return apperr.Forbidden()
	}
	return apperr.Upstream("erro ao acessar a página", err)
}
