package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/article"
	"github.com/redacaolab/redator/internal/social"
)

type extractRequest struct {
	URL                       string `json:"url"`
	IncludeVideoTranscription bool   `json:"includeVideoTranscription"`
}

// ExtractHandler routes extraction requests to the article or the social
// extractor based on the URL shape.
type ExtractHandler struct {
	articles *article.Extractor
	social   *social.Extractor
}

func NewExtractHandler(articles *article.Extractor, socialExtractor *social.Extractor) *ExtractHandler {
	return &ExtractHandler{articles: articles, social: socialExtractor}
}

func (h *ExtractHandler) Handle(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.URL == "" {
		return badRequest(c, "URL é obrigatória")
	}

	ctx := c.UserContext()
	target := article.NormalizeURL(req.URL)

	if social.IsSocialURL(target) {
		log.Printf("extract: conteúdo social detectado em %s", target)
		result, err := h.social.Extract(ctx, target, req.IncludeVideoTranscription)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	}

	result, err := h.articles.Extract(ctx, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
