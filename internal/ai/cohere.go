package ai

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/redacaolab/redator/internal/apperr"
)

const (
	completionTimeout     = 90 * time.Second
	completionMaxTokens   = 4000
	completionTemperature = 0.7
)

// CohereProvider implements CompletionProvider over the Cohere Chat API.
type CohereProvider struct {
	client       *cohereclient.Client
	defaultModel string
}

func NewCohereProvider(apiKey, defaultModel string) *CohereProvider {
	// Force HTTP/1.1; the Cohere edge intermittently resets HTTP/2 streams
	// on long generations.
	httpClient := &http.Client{
		Timeout: completionTimeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	return &CohereProvider{
		client: cohereclient.NewClient(
			cohereclient.WithToken(apiKey),
			cohereclient.WithHTTPClient(httpClient),
		),
		defaultModel: defaultModel,
	}
}

func (p *CohereProvider) Complete(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = p.defaultModel
	}
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	maxTokens := completionMaxTokens
	temperature := completionTemperature
	resp, err := p.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "Erro ao gerar texto com IA", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", apperr.New(apperr.KindUpstream, "A IA retornou uma resposta vazia")
	}
	return resp.Text, nil
}
