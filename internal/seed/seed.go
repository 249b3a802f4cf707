// Package seed fills a development database with fake users, articles,
// comments and social edges.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/models"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "conduit-password"

// Store is the subset of core operations the seeder writes through.
type Store interface {
	CreateUser(ctx context.Context, in core.SignupInput) (*auth.User, error)
	CreateArticle(ctx context.Context, author *models.Profile, in core.ArticleInput) (*models.Article, error)
	CreateComment(ctx context.Context, article *models.Article, author *models.Profile, in core.CommentInput) (*models.Comment, error)
	Follow(ctx context.Context, follower, followee *models.Profile) error
	Favorite(ctx context.Context, profile *models.Profile, article *models.Article) error
}

type Options struct {
	Users    int
	Articles int
}

type Result struct {
	Users    []*auth.User
	Articles []*models.Article
	Comments int
}

type Seeder struct {
	store  Store
	logger *slog.Logger
	faker  *gofakeit.Faker
}

// New returns a Seeder. A non zero seed makes the generated data reproducible.
func New(store Store, logger *slog.Logger, seed int64) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
		faker:  gofakeit.New(seed),
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users < 1 {
		return nil, xerrors.Newf("seed: at least one user is required, got %d", opts.Users)
	}

	result := &Result{}
	for i := range opts.Users {
		in := core.SignupInput{
			Username: fmt.Sprintf("%s%d", usernameBase(s.faker.Username()), i),
			Email:    fmt.Sprintf("%d.%s", i, strings.ToLower(s.faker.Email())),
			Password: DefaultPassword,
		}
		user, err := s.store.CreateUser(ctx, in)
		if err != nil {
			return nil, xerrors.New(err)
		}
		result.Users = append(result.Users, user)
	}

	for range opts.Articles {
		author := s.pickUser(result.Users)
		in := core.ArticleInput{
			Title:       strings.TrimSuffix(s.faker.Sentence(s.faker.Number(3, 8)), "."),
			Description: s.faker.Sentence(12),
			Body:        s.faker.Paragraph(3, 4, 12, "\n\n"),
		}
		article, err := s.store.CreateArticle(ctx, author.Profile, in)
		if err != nil {
			return nil, xerrors.New(err)
		}
		result.Articles = append(result.Articles, article)
	}

	for _, article := range result.Articles {
		for range s.faker.Number(0, 3) {
			commenter := s.pickUser(result.Users)
			if _, err := s.store.CreateComment(ctx, article, commenter.Profile, core.CommentInput{Body: s.faker.Sentence(10)}); err != nil {
				return nil, xerrors.New(err)
			}
			result.Comments++
		}
	}

	for _, user := range result.Users {
		if followee := s.pickUser(result.Users); followee.ID != user.ID {
			if err := s.store.Follow(ctx, user.Profile, followee.Profile); err != nil {
				return nil, xerrors.New(err)
			}
		}
		if len(result.Articles) > 0 && s.faker.Bool() {
			article := result.Articles[s.faker.Number(0, len(result.Articles)-1)]
			if err := s.store.Favorite(ctx, user.Profile, article); err != nil {
				return nil, xerrors.New(err)
			}
		}
	}

	s.logger.Info("Database seeded",
		"users", len(result.Users),
		"articles", len(result.Articles),
		"comments", result.Comments,
		"password", DefaultPassword,
	)
	return result, nil
}

func (s *Seeder) pickUser(users []*auth.User) *auth.User {
	return users[s.faker.Number(0, len(users)-1)]
}

// usernameBase keeps the ASCII letters and digits of a generated name.
func usernameBase(name string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}
		return -1
	}, name)
	if base == "" {
		return "user"
	}
	return base
}
