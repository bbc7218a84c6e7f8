package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/ai"
	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/verify"
)

type createArticleRequest struct {
	Keyword   string `json:"keyword"`
	Tone      string `json:"tone"`
	Length    string `json:"length"`
	UseGoogle *bool  `json:"useGoogle"`
	UseGnews  bool   `json:"useGnews"`
}

type sourceRef struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// CreateArticleHandler researches a keyword and writes an original article
// from the verified sources.
type CreateArticleHandler struct {
	searcher *verify.Searcher
	writer   *ai.Writer
	bus      *progress.Broadcaster
}

func NewCreateArticleHandler(searcher *verify.Searcher, writer *ai.Writer, bus *progress.Broadcaster) *CreateArticleHandler {
	return &CreateArticleHandler{searcher: searcher, writer: writer, bus: bus}
}

func (h *CreateArticleHandler) Handle(c *fiber.Ctx) error {
	var req createArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Keyword == "" {
		return badRequest(c, "Palavra-chave é obrigatória")
	}

	// Web search fallback is on unless the caller disabled it.
	useGoogle := req.UseGoogle == nil || *req.UseGoogle

	ctx := c.UserContext()
	articles, err := h.searcher.SearchNews(ctx, req.Keyword, verify.SearchOptions{
		UseGoogle: useGoogle,
		UseGNews:  req.UseGnews,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.bus.Publish("generating_start", "Gerando sua matéria...")
	generated, err := h.writer.GenerateArticle(ctx, req.Keyword, req.Tone, req.Length, articles)
	if err != nil {
		return respondError(c, err)
	}
	h.bus.Publish("generating_complete", "Matéria gerada com sucesso!")
	h.bus.Publish("formatting_complete", "Formatação concluída!")
	h.bus.Publish("article_complete", "Matéria pronta!")

	sources := make([]sourceRef, 0, len(articles))
	for _, a := range articles {
		sources = append(sources, sourceRef{Title: a.Title, URL: a.URL, Source: a.Source})
	}

	return c.JSON(fiber.Map{
		"keyword": req.Keyword,
		"sources": sources,
		"article": generated,
	})
}
