package core

import (
	"context"
	"database/sql"
	"iter"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/collectionutils"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/internal/utils/stringutils"
	"github.com/siahsang/conduit/models"
)

func (c *Core) Favorite(ctx context.Context, profile *models.Profile, article *models.Article) error {
	if err := requireIdentity(profile); err != nil {
		return err
	}

	const insertSQL = `
		INSERT INTO favorites (profile_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := databaseutils.Execute(c.sqlTemplate, ctx, insertSQL, profile.ID, article.ID); err != nil {
		return storeError(err)
	}
	return nil
}

func (c *Core) Unfavorite(ctx context.Context, profile *models.Profile, article *models.Article) error {
	if err := requireIdentity(profile); err != nil {
		return err
	}

	const deleteSQL = `
		DELETE FROM favorites
		WHERE profile_id = $1 AND article_id = $2
	`
	if _, err := databaseutils.Execute(c.sqlTemplate, ctx, deleteSQL, profile.ID, article.ID); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (c *Core) HasFavorited(ctx context.Context, profile *models.Profile, article *models.Article) (bool, error) {
	if profile == nil {
		return false, nil
	}

	const selectSQL = `
		SELECT EXISTS (
			SELECT 1 FROM favorites WHERE profile_id = $1 AND article_id = $2
		)
	`
	favorited, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectSQL, scanBool, profile.ID, article.ID)
	if err != nil {
		return false, xerrors.New(err)
	}
	return favorited, nil
}

// ToggleFavorite flips the edge and reports whether profile has favorited article afterwards.
func (c *Core) ToggleFavorite(ctx context.Context, profile *models.Profile, article *models.Article) (bool, error) {
	if err := requireIdentity(profile); err != nil {
		return false, err
	}

	return databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (bool, error) {
		favorited, err := c.HasFavorited(txCtx, profile, article)
		if err != nil {
			return false, err
		}
		if favorited {
			return false, c.Unfavorite(txCtx, profile, article)
		}
		return true, c.Favorite(txCtx, profile, article)
	})
}

// FavoritedArticleIDs returns the subset of articleIDs that profile has favorited.
func (c *Core) FavoritedArticleIDs(ctx context.Context, profile *models.Profile, articleIDs []int64) (map[int64]bool, error) {
	if profile == nil || len(articleIDs) == 0 {
		return map[int64]bool{}, nil
	}

	placeholders, args := stringutils.Placeholders(articleIDs, 2)
	query := `SELECT article_id FROM favorites WHERE profile_id = $1 AND article_id IN (` + placeholders + `)`

	ids, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	}, append([]any{profile.ID}, args...)...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return collectionutils.Associate(ids, func(id int64) (int64, bool) {
		return id, true
	}), nil
}

// ListFavoritedArticles yields the articles profile has favorited, newest first.
func (c *Core) ListFavoritedArticles(ctx context.Context, profile *models.Profile) iter.Seq2[*models.Article, error] {
	query := selectArticleSQL + `
		WHERE a.id IN (SELECT article_id FROM favorites WHERE profile_id = $1)
	` + feedOrder
	return databaseutils.StreamQuery(c.sqlTemplate, ctx, query, scanArticle, profile.ID)
}
