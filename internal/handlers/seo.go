package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/ai"
	"github.com/redacaolab/redator/internal/seo"
)

type seoRequest struct {
	URL string `json:"url"`
}

// SEOHandler audits a page and asks the writer for improvement suggestions.
type SEOHandler struct {
	analyzer *seo.Analyzer
	writer   *ai.Writer
}

func NewSEOHandler(analyzer *seo.Analyzer, writer *ai.Writer) *SEOHandler {
	return &SEOHandler{analyzer: analyzer, writer: writer}
}

func (h *SEOHandler) Handle(c *fiber.Ctx) error {
	var req seoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.URL == "" {
		return badRequest(c, "URL é obrigatória")
	}

	ctx := c.UserContext()
	report, err := h.analyzer.Analyze(ctx, req.URL)
	if err != nil {
		return respondError(c, err)
	}

	// The audit itself is still useful when suggestion generation fails.
	suggestions, err := h.writer.Complete(ctx, seo.SuggestionPrompt(report))
	if err != nil {
		log.Printf("seo: falha ao gerar sugestões: %v", err)
		suggestions = ""
	}

	return c.JSON(fiber.Map{
		"seoData":     report,
		"suggestions": suggestions,
	})
}
