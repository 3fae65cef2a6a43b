package repository

import (
	"context"
	"database/sql"

	"github.com/cherio/cherio-api/internal/model"
)

// ArticleRepo provides read access to the `articles` table (site news).
type ArticleRepo struct{ DB *sql.DB }

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{DB: db} }

// List returns the most recent articles, newest first.
func (r *ArticleRepo) List(ctx context.Context, limit int) ([]model.Article, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, slug, title, short_story, full_story, user_id, image, created_at FROM articles ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.ShortStory, &a.FullStory, &a.UserID, &a.Image, &a.CreatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetBySlug fetches a single article for the detail page.
func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (model.Article, error) {
	var a model.Article
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, slug, title, short_story, full_story, user_id, image, created_at FROM articles WHERE slug=? LIMIT 1",
		slug).Scan(&a.ID, &a.Slug, &a.Title, &a.ShortStory, &a.FullStory, &a.UserID, &a.Image, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Article{}, ErrNotFound
	}
	return a, err
}
