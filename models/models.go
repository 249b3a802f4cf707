package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultProfileImage = "https://static.productionready.io/images/smiley-cyrus.jpg"

type Profile struct {
	ID       int64  `json:"-"`
	UserID   int64  `json:"-"`
	Username string `json:"username"`
	Image    string `json:"image"`
	Bio      string `json:"bio"`
}

func (p *Profile) AbsoluteURL() string {
	return "/profile/@" + p.Username
}

type Article struct {
	ID             int64     `json:"-"`
	Slug           string    `json:"slug"`
	UUID           uuid.UUID `json:"uuid"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	AuthorID       int64     `json:"-"`
	Author         *Profile  `json:"author"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	FavoritesCount int64     `json:"favoritesCount"`
}

// Key is the externally addressable identity of the article: <slug>-<uuid>.
func (a *Article) Key() string {
	return fmt.Sprintf("%s-%s", a.Slug, a.UUID)
}

func (a *Article) AbsoluteURL() string {
	return "/article/" + a.Key()
}

func (a *Article) OwnerID() int64 {
	return a.AuthorID
}

type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"-"`
	Author    *Profile  `json:"author"`
	ArticleID int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) OwnerID() int64 {
	return c.AuthorID
}
