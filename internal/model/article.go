package model

import "time"

// Article mirrors a row of the `articles` table (site news).
type Article struct {
	ID         uint64    // articles.id
	Slug       string    // articles.slug
	Title      string    // articles.title
	ShortStory string    // articles.short_story
	FullStory  string    // articles.full_story
	UserID     uint64    // articles.user_id (author)
	Image      string    // articles.image
	CreatedAt  time.Time // articles.created_at
}
