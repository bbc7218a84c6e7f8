package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/storage"
)

type saveArticleRequest struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Content         string `json:"content"`
	Tags            string `json:"tags"`
	Keyword         string `json:"keyword"`
	LongTailKeyword string `json:"longTailKeyword"`
}

// ArticlesHandler serves the stored-articles CRUD.
type ArticlesHandler struct {
	db *storage.ArticleDB
}

func NewArticlesHandler(db *storage.ArticleDB) *ArticlesHandler {
	return &ArticlesHandler{db: db}
}

func (h *ArticlesHandler) Save(c *fiber.Ctx) error {
	var req saveArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Title == "" || req.Content == "" {
		return badRequest(c, "Título e conteúdo são obrigatórios")
	}

	articleID, err := h.db.Save(&storage.SavedArticle{
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Content:         req.Content,
		Tags:            req.Tags,
		Keyword:         req.Keyword,
		LongTailKeyword: req.LongTailKeyword,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Matéria salva com sucesso",
		"articleId": articleID,
	})
}

func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	articles, err := h.db.List(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"articles": articles})
}

func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.db.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(article)
}

func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req saveArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	err := h.db.Update(&storage.SavedArticle{
		ArticleID:       c.Params("id"),
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Content:         req.Content,
		Tags:            req.Tags,
		LongTailKeyword: req.LongTailKeyword,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Matéria atualizada com sucesso"})
}

func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.db.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Matéria excluída com sucesso"})
}
