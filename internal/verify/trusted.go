// Package verify implements the news verification engine: trusted-site
// search, the obituary falsity heuristic and the composed searchNews flow.
package verify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/types"
)

const (
	siteFetchTimeout = 10 * time.Second
	maxHitsPerSite   = 3
	maxTotalHits     = 10
	minLinkTextLen   = 15

	fetchUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// DefaultTrustedSources are the Brazilian news sites queried directly,
// bypassing general web search.
var DefaultTrustedSources = []types.TrustedSource{
	{BaseURL: "https://g1.globo.com/busca/", SearchParam: "q"},
	{BaseURL: "https://www.uol.com.br/busca/", SearchParam: "q"},
	{BaseURL: "https://www.terra.com.br/busca/", SearchParam: "query"},
	{BaseURL: "https://www.cnnbrasil.com.br/busca/", SearchParam: "q"},
	{BaseURL: "https://www.estadao.com.br/busca/", SearchParam: "termo"},
	{BaseURL: "https://www.folha.uol.com.br/busca/", SearchParam: "q"},
	{BaseURL: "https://www.r7.com/busca/", SearchParam: "q"},
	{BaseURL: "https://www.fuxicogospel.com.br/", SearchParam: "s"},
}

// Site-specific result selectors, one per trusted site's markup.
var siteResultSelectors = []string{
	"a.widget--info__title",
	"a.thumbnail__title",
	"a.card__title",
	"a.news-item-header__title",
	"a.link-title",
	"a.c-headline__title",
	"a.r7-search-result-link",
}

// SearchResult is one raw hit from a general web search provider.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearcher is the general web-search capability used for the obituary
// falsity check and as a fallback source of hits.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Engine queries trusted sites and applies the relevance and falsity
// heuristics before accepting a topic as verified.
type Engine struct {
	sources  []types.TrustedSource
	client   *http.Client
	searcher WebSearcher
	bus      *progress.Broadcaster
}

func NewEngine(sources []types.TrustedSource, searcher WebSearcher, bus *progress.Broadcaster) *Engine {
	if len(sources) == 0 {
		sources = DefaultTrustedSources
	}
	return &Engine{
		sources:  sources,
		client:   &http.Client{Timeout: siteFetchTimeout},
		searcher: searcher,
		bus:      bus,
	}
}

// Verify checks the keyword against every trusted site, then runs the
// obituary-specific checks. Per-site failures are logged and skipped;
// verification itself never fails.
func (e *Engine) Verify(ctx context.Context, keyword string) *types.VerificationResult {
	log.Printf("verify: verificando notícias sobre %q em sites confiáveis", keyword)

	relevance := NewRelevance(keyword)
	result := &types.VerificationResult{}

	for _, site := range e.sources {
		e.publish("verifying_source", "Consultando "+hostOf(site.BaseURL)+"...")
		hits, pageText, err := e.searchSite(ctx, site, keyword, relevance)
		if err != nil {
			log.Printf("verify: erro ao consultar %s: %v", site.BaseURL, err)
			continue
		}
		if len(hits) == 0 {
			continue
		}
		result.IsVerified = true
		result.Results = append(result.Results, hits...)

		if relevance.IsObituary && relevance.HasFalseIndicators(pageText, fakeNewsIndicators) {
			log.Printf("verify: possível fake news detectada para %q", relevance.Subject)
			result.IsFalseEvent = true
		}
	}

	// Search explicitly for "<name> está vivo" when an obituary claim was
	// accepted by any trusted site.
	if relevance.IsObituary && result.IsVerified && !result.IsFalseEvent && e.searcher != nil {
		if e.subjectAppearsAlive(ctx, relevance) {
			result.IsFalseEvent = true
		}
	}

	// One more general search when no trusted site had anything.
	if relevance.IsObituary && !result.IsFalseEvent && len(result.Results) == 0 && e.searcher != nil {
		result.Results = append(result.Results, e.obituaryWebSearch(ctx, relevance)...)
		if len(result.Results) > 0 {
			result.IsVerified = true
		}
	}

	if len(result.Results) > maxTotalHits {
		result.Results = result.Results[:maxTotalHits]
	}
	return result
}

// searchSite queries one trusted site and returns its accepted hits plus the
// result page's body text for the falsity scan.
func (e *Engine) searchSite(ctx context.Context, site types.TrustedSource, keyword string, relevance *Relevance) ([]types.NewsHit, string, error) {
	searchURL := fmt.Sprintf("%s?%s=%s", site.BaseURL, site.SearchParam, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", fetchUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", err
	}

	host := hostOf(site.BaseURL)
	var hits []types.NewsHit
	seen := make(map[string]bool)

	accept := func(_ int, s *goquery.Selection) {
		if len(hits) >= maxHitsPerSite {
			return
		}
		linkText := strings.TrimSpace(s.Text())
		href, ok := s.Attr("href")
		if !ok || linkText == "" || len(linkText) <= minLinkTextLen {
			return
		}
		if !relevance.Matches(linkText) {
			return
		}
		fullURL := absoluteURL(href, host)
		if seen[fullURL] {
			return
		}
		seen[fullURL] = true
		hits = append(hits, types.NewsHit{Title: linkText, URL: fullURL, SourceHost: host})
	}

	// Generic scan over every hyperlink, then the site-specific selectors.
	doc.Find("a").Each(accept)
	for _, sel := range siteResultSelectors {
		doc.Find(sel).Each(accept)
	}

	return hits, strings.ToLower(doc.Find("body").Text()), nil
}

func (e *Engine) subjectAppearsAlive(ctx context.Context, relevance *Relevance) bool {
	results, err := e.searcher.Search(ctx, relevance.Subject+" está vivo")
	if err != nil {
		log.Printf("verify: erro na verificação adicional: %v", err)
		return false
	}
	for _, r := range results {
		if relevance.HasFalseIndicators(r.Title+" "+r.Snippet, aliveIndicators) {
			log.Printf("verify: indicação de que %q está vivo: %q", relevance.Subject, r.Title)
			return true
		}
	}
	return false
}

func (e *Engine) obituaryWebSearch(ctx context.Context, relevance *Relevance) []types.NewsHit {
	results, err := e.searcher.Search(ctx, "morte "+relevance.Subject)
	if err != nil {
		log.Printf("verify: erro na busca adicional: %v", err)
		return nil
	}
	var hits []types.NewsHit
	for _, r := range results {
		if len(r.Title) > minLinkTextLen && relevance.Matches(r.Title) {
			hits = append(hits, types.NewsHit{Title: r.Title, URL: r.URL, SourceHost: hostOf(r.URL)})
		}
	}
	return hits
}

func (e *Engine) publish(event, message string) {
	if e.bus != nil {
		e.bus.Publish(event, message)
	}
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Hostname()
	}
	return rawURL
}

func absoluteURL(href, host string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://" + host + href
}
