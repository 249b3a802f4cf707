package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/config"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Environment:   config.EnvDevelopment,
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
	}
	c := core.NewCore(db, logger, databaseutils.NewSession(db), databaseutils.NewSQLTemplate(db, time.Second))

	app, err := newApplication(cfg, logger, c, auth.NewMemoryRevoker())
	require.NoError(t, err)
	return app, mock
}

func testUser(id int64, username string) *auth.User {
	return &auth.User{
		ID:       id,
		Email:    username + "@example.com",
		Username: username,
		Password: []byte("hash"),
		Profile:  &models.Profile{ID: id, UserID: id, Username: username, Image: models.DefaultProfileImage},
	}
}

func testArticle(id int64, author *models.Profile) *models.Article {
	return &models.Article{
		ID:          id,
		Slug:        "hello-world",
		UUID:        uuid.MustParse("0b3b8e5e-4a3c-4c69-9d1b-0e7e6b7f8a10"),
		Title:       "Hello World!",
		Description: "desc",
		Body:        "# body",
		AuthorID:    author.ID,
		Author:      author,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}

// expectSessionUser expects the lookup the authenticate middleware makes for user.
func expectSessionUser(mock sqlmock.Sqlmock, user *auth.User) {
	mock.ExpectQuery(`WHERE u\.id = \$1`).
		WithArgs(user.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "password", "p_id", "p_user_id", "image_url", "bio"}).
			AddRow(user.ID, user.Email, user.Username, user.Password, user.Profile.ID, user.Profile.UserID, user.Profile.Image, user.Profile.Bio))
}

func expectResolveArticle(mock sqlmock.Sqlmock, a *models.Article) {
	mock.ExpectQuery(`WHERE a\.slug = \$1 AND a\.uuid = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "slug", "uuid", "description", "body", "author_id", "created_at", "updated_at",
			"p_id", "p_user_id", "username", "image_url", "bio", "favorites_count",
		}).AddRow(a.ID, a.Title, a.Slug, a.UUID.String(), a.Description, a.Body, a.AuthorID, a.CreatedAt, a.UpdatedAt,
			a.Author.ID, a.Author.UserID, a.Author.Username, a.Author.Image, a.Author.Bio, a.FavoritesCount))
}

// sessionCookie signs a session for user the same way login does.
func sessionCookie(t *testing.T, app *application, user *auth.User) *http.Cookie {
	t.Helper()
	token, claim, err := app.auth.GenerateToken(user)
	require.NoError(t, err)
	return app.auth.SessionCookie(token, claim)
}

func newFormRequest(method, target string, values url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func serve(app *application, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, r)
	return rec
}
