package seo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/redacaolab/redator/internal/apperr"
)

const analysisTimeout = 60 * time.Second

// extractScript runs in the page and returns the raw SEO audit object.
const extractScript = `
(() => {
	const anchors = Array.from(document.querySelectorAll('a'));
	return {
		title: document.title || '',
		metaDescription: document.querySelector('meta[name="description"]')?.content || '',
		metaKeywords: document.querySelector('meta[name="keywords"]')?.content || '',
		h1Tags: Array.from(document.querySelectorAll('h1')).map(h => h.textContent.trim()),
		h2Tags: Array.from(document.querySelectorAll('h2')).map(h => h.textContent.trim()),
		images: Array.from(document.querySelectorAll('img')).map(img => ({
			src: img.src,
			alt: img.alt || 'Sem alt text'
		})),
		links: anchors.length,
		internalLinks: anchors.filter(a => a.href && a.href.includes(window.location.hostname)).length,
		externalLinks: anchors.filter(a => a.href && !a.href.includes(window.location.hostname) && a.href.startsWith('http')).length,
		textContent: document.body.innerText.length,
		loadTime: performance.timing ? (performance.timing.loadEventEnd - performance.timing.navigationStart) : 0
	};
})()
`

// ImageInfo records one image and its alt text.
type ImageInfo struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Report holds the on-page SEO audit of a single URL.
type Report struct {
	Title           string      `json:"title"`
	MetaDescription string      `json:"metaDescription"`
	MetaKeywords    string      `json:"metaKeywords"`
	H1Tags          []string    `json:"h1Tags"`
	H2Tags          []string    `json:"h2Tags"`
	Images          []ImageInfo `json:"images"`
	Links           int         `json:"links"`
	InternalLinks   int         `json:"internalLinks"`
	ExternalLinks   int         `json:"externalLinks"`
	TextContent     int         `json:"textContent"`
	LoadTime        float64     `json:"loadTime"`
}

// MissingAlt counts images without an alt attribute.
func (r *Report) MissingAlt() int {
	n := 0
	for _, img := range r.Images {
		if img.Alt == "Sem alt text" {
			n++
		}
	}
	return n
}

// Analyzer audits pages in a headless browser.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze renders the URL and extracts the on-page SEO data.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*Report, error) {
	log.Printf("seo: analisando %s", url)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, analysisTimeout)
	defer cancelTimeout()

	var report Report
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(extractScript, &report, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "Erro ao analisar o site: "+url, err)
	}
	return &report, nil
}

// SuggestionPrompt formats the audit for the improvement-suggestion model.
func SuggestionPrompt(r *Report) string {
	h2 := r.H2Tags
	if len(h2) > 5 {
		h2 = h2[:5]
	}
	return fmt.Sprintf(`Analise os dados SEO a seguir e forneça sugestões específicas de melhoria:

DADOS SEO:
- Título: %s
- Meta Description: %s
- H1 Tags: %s
- H2 Tags: %s
- Número de imagens sem alt: %d
- Links internos: %d
- Links externos: %d
- Tamanho do conteúdo: %d caracteres

Forneça sugestões práticas e específicas para melhorar o SEO em português brasileiro.`,
		r.Title, r.MetaDescription,
		strings.Join(r.H1Tags, ", "), strings.Join(h2, ", "),
		r.MissingAlt(), r.InternalLinks, r.ExternalLinks, r.TextContent)
}
