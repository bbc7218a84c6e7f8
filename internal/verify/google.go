package verify

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleSearcher implements WebSearcher over the Custom Search JSON API.
type GoogleSearcher struct {
	apiKey   string
	engineID string
}

func NewGoogleSearcher(apiKey, engineID string) *GoogleSearcher {
	return &GoogleSearcher{apiKey: apiKey, engineID: engineID}
}

// Configured reports whether both credentials are present.
func (g *GoogleSearcher) Configured() bool {
	return g.apiKey != "" && g.engineID != ""
}

func (g *GoogleSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if !g.Configured() {
		return nil, fmt.Errorf("pesquisa Google não configurada")
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente de pesquisa: %w", err)
	}

	resp, err := svc.Cse.List().Cx(g.engineID).Q(query).Num(10).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("falha na pesquisa Google: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
