package verify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/redacaolab/redator/internal/types"
)

const gnewsFeedURL = "https://news.google.com/rss/search?q=%s&hl=pt-BR&gl=BR&ceid=BR:pt-419"

// FetchGoogleNews queries the Google News RSS feed for a keyword and returns
// article metadata, newest first as the feed delivers them.
func FetchGoogleNews(ctx context.Context, keyword string, limit int) ([]types.NewsArticle, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(fmt.Sprintf(gnewsFeedURL, url.QueryEscape(keyword)), ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar o feed de notícias: %w", err)
	}

	count := min(len(feed.Items), limit)
	articles := make([]types.NewsArticle, 0, count)
	for _, item := range feed.Items[:count] {
		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		source := hostOf(item.Link)
		if item.Custom != nil && item.Custom["source"] != "" {
			source = item.Custom["source"]
		}
		articles = append(articles, types.NewsArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			Source:      source,
			PublishedAt: published,
		})
	}
	return articles, nil
}
