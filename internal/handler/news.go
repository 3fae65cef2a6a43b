package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/model"
	"github.com/cherio/cherio-api/internal/repository"
)

// newsPageSize caps the article list response.
const newsPageSize = 20

// NewsHandler serves the site news endpoints.
type NewsHandler struct {
	Articles *repository.ArticleRepo
}

func NewNewsHandler(articles *repository.ArticleRepo) *NewsHandler {
	return &NewsHandler{Articles: articles}
}

type articleResp struct {
	ID         uint64 `json:"id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	ShortStory string `json:"short_story"`
	FullStory  string `json:"full_story"`
	UserID     uint64 `json:"user_id"`
	Image      string `json:"image"`
	CreatedAt  string `json:"created_at"`
}

func toArticleResp(a model.Article) articleResp {
	return articleResp{
		ID: a.ID, Slug: a.Slug, Title: a.Title,
		ShortStory: a.ShortStory, FullStory: a.FullStory,
		UserID: a.UserID, Image: a.Image,
		CreatedAt: a.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// List returns the latest articles.
func (h *NewsHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	articles, err := h.Articles.List(ctx, newsPageSize)
	if err != nil {
		c.Logger().Errorf("news: list failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	out := make([]articleResp, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one article by slug.
func (h *NewsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Articles.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
		}
		c.Logger().Errorf("news: get failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}
	return c.JSON(http.StatusOK, toArticleResp(a))
}
