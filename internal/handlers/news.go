package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/verify"
)

type searchRequest struct {
	Keyword   string `json:"keyword"`
	Limit     int    `json:"limit"`
	UseGoogle bool   `json:"useGoogle"`
	UseGnews  bool   `json:"useGnews"`
}

// NewsHandler exposes the verified news search.
type NewsHandler struct {
	searcher *verify.Searcher
}

func NewNewsHandler(searcher *verify.Searcher) *NewsHandler {
	return &NewsHandler{searcher: searcher}
}

func (h *NewsHandler) Handle(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Keyword == "" {
		return badRequest(c, "Palavra-chave é obrigatória")
	}

	articles, err := h.searcher.SearchNews(c.UserContext(), req.Keyword, verify.SearchOptions{
		UseGoogle: req.UseGoogle,
		UseGNews:  req.UseGnews,
		MaxItems:  req.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"keyword":  req.Keyword,
		"total":    len(articles),
		"articles": articles,
	})
}
