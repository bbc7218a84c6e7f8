package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/ai"
	"github.com/redacaolab/redator/internal/article"
	"github.com/redacaolab/redator/internal/textutil"
)

type rewriteRequest struct {
	URL         string `json:"url"`
	Tone        string `json:"tone"`
	Observation string `json:"observation"`
}

// RewriteHandler extracts an article and rewrites it in the requested tone.
type RewriteHandler struct {
	extractor *article.Extractor
	writer    *ai.Writer
}

func NewRewriteHandler(extractor *article.Extractor, writer *ai.Writer) *RewriteHandler {
	return &RewriteHandler{extractor: extractor, writer: writer}
}

func (h *RewriteHandler) Handle(c *fiber.Ctx) error {
	var req rewriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.URL == "" {
		return badRequest(c, "URL é obrigatória")
	}

	ctx := c.UserContext()
	extracted, err := h.extractor.Extract(ctx, article.NormalizeURL(req.URL))
	if err != nil {
		return respondError(c, err)
	}

	rewritten, err := h.writer.RewriteFromSource(ctx, extracted.Title, extracted.Content, req.Tone, req.Observation)
	if err != nil {
		return respondError(c, err)
	}

	preview := extracted.Content
	if len(preview) > 500 {
		preview = textutil.Clip(preview, 500) + "..."
	}
	return c.JSON(fiber.Map{
		"original": fiber.Map{
			"title":     extracted.Title,
			"content":   preview,
			"wordCount": extracted.WordCount,
		},
		"rewritten": rewritten,
	})
}
