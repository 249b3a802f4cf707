package core

import (
	"database/sql/driver"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

// setupCore creates a Core backed by sqlmock.
func setupCore(t *testing.T) (*Core, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := NewCore(db, slog.New(slog.NewTextHandler(io.Discard, nil)), databaseutils.NewSession(db), databaseutils.NewSQLTemplate(db, time.Second))
	c.now = func() time.Time { return fixedNow }
	return c, mock
}

var articleColumns = []string{
	"id", "title", "slug", "uuid", "description", "body", "author_id", "created_at", "updated_at",
	"p_id", "p_user_id", "username", "image_url", "bio", "favorites_count",
}

func articleRow(rows *sqlmock.Rows, a *models.Article) *sqlmock.Rows {
	return rows.AddRow(a.ID, a.Title, a.Slug, a.UUID.String(), a.Description, a.Body, a.AuthorID, a.CreatedAt, a.UpdatedAt,
		a.Author.ID, a.Author.UserID, a.Author.Username, a.Author.Image, a.Author.Bio, a.FavoritesCount)
}

var commentColumns = []string{
	"id", "body", "author_id", "article_id", "created_at",
	"p_id", "p_user_id", "username", "image_url", "bio",
}

func testProfile(id int64, username string) *models.Profile {
	return &models.Profile{ID: id, UserID: id * 10, Username: username, Image: models.DefaultProfileImage}
}

func testArticle(id int64, author *models.Profile, createdAt time.Time) *models.Article {
	return &models.Article{
		ID:          id,
		Title:       "Hello World!",
		Slug:        "hello-world",
		UUID:        uuid.New(),
		Description: "desc",
		Body:        "body",
		AuthorID:    author.ID,
		Author:      author,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func affected(n int64) driver.Result {
	return sqlmock.NewResult(0, n)
}
