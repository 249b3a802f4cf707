package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/validator"
	"github.com/siahsang/conduit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users    []core.SignupInput
	articles []core.ArticleInput
	comments int
	follows  [][2]int64
	favorite int
}

func (f *fakeStore) CreateUser(_ context.Context, in core.SignupInput) (*auth.User, error) {
	f.users = append(f.users, in)
	id := int64(len(f.users))
	return &auth.User{ID: id, Username: in.Username, Email: in.Email, Profile: &models.Profile{ID: id, UserID: id, Username: in.Username}}, nil
}

func (f *fakeStore) CreateArticle(_ context.Context, author *models.Profile, in core.ArticleInput) (*models.Article, error) {
	f.articles = append(f.articles, in)
	return &models.Article{ID: int64(len(f.articles)), Title: in.Title, AuthorID: author.ID, Author: author}, nil
}

func (f *fakeStore) CreateComment(_ context.Context, article *models.Article, author *models.Profile, in core.CommentInput) (*models.Comment, error) {
	f.comments++
	return &models.Comment{ID: int64(f.comments), ArticleID: article.ID, AuthorID: author.ID, Body: in.Body}, nil
}

func (f *fakeStore) Follow(_ context.Context, follower, followee *models.Profile) error {
	f.follows = append(f.follows, [2]int64{follower.ID, followee.ID})
	return nil
}

func (f *fakeStore) Favorite(context.Context, *models.Profile, *models.Article) error {
	f.favorite++
	return nil
}

func TestSeeder_Run(t *testing.T) {
	store := &fakeStore{}
	seeder := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)), 42)

	result, err := seeder.Run(context.Background(), Options{Users: 5, Articles: 12})
	require.NoError(t, err)
	assert.Len(t, result.Users, 5)
	assert.Len(t, result.Articles, 12)
	assert.Equal(t, store.comments, result.Comments)

	usernames := map[string]bool{}
	for _, in := range store.users {
		v := validator.New()
		in.Validate(v)
		assert.True(t, v.IsValid(), "generated signup %+v is invalid: %v", in, v.Errors)
		usernames[in.Username] = true
	}
	assert.Len(t, usernames, 5)

	for _, in := range store.articles {
		v := validator.New()
		in.Validate(v)
		assert.True(t, v.IsValid(), "generated article %+v is invalid: %v", in, v.Errors)
	}

	for _, edge := range store.follows {
		assert.NotEqual(t, edge[0], edge[1], "a profile never follows itself")
	}
}

func TestSeeder_RunRequiresUsers(t *testing.T) {
	seeder := New(&fakeStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)), 1)

	_, err := seeder.Run(context.Background(), Options{Users: 0, Articles: 3})
	assert.Error(t, err)
}
