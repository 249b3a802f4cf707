package core

import (
	"context"
	"database/sql"
	"iter"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
)

const selectArticleSQL = `
	SELECT a.id, a.title, a.slug, a.uuid, a.description, a.body, a.author_id, a.created_at, a.updated_at,
		p.id, p.user_id, u.username, p.image_url, p.bio,
		(SELECT COUNT(*) FROM favorites fav WHERE fav.article_id = a.id)
	FROM articles a
	JOIN profiles p ON p.id = a.author_id
	JOIN users u ON u.id = p.user_id
`

const feedOrder = ` ORDER BY a.created_at DESC, a.id DESC`

func scanArticle(rows *sql.Rows) (*models.Article, error) {
	article := &models.Article{Author: &models.Profile{}}
	if err := rows.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.UUID,
		&article.Description,
		&article.Body,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.Author.ID,
		&article.Author.UserID,
		&article.Author.Username,
		&article.Author.Image,
		&article.Author.Bio,
		&article.FavoritesCount,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return article, nil
}

// CreateArticle publishes a new article by author. The slug is derived from
// the title here and never recomputed.
func (c *Core) CreateArticle(ctx context.Context, author *models.Profile, in ArticleInput) (*models.Article, error) {
	if err := requireIdentity(author); err != nil {
		return nil, err
	}

	now := c.now()
	article := &models.Article{
		Title:       in.Title,
		Slug:        CreateSlug(in.Title),
		UUID:        uuid.New(),
		Description: in.Description,
		Body:        in.Body,
		AuthorID:    author.ID,
		Author:      author,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertSQL = `
		INSERT INTO articles (title, slug, uuid, description, body, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	id, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	}, article.Title, article.Slug, article.UUID, article.Description, article.Body, article.AuthorID, article.CreatedAt, article.UpdatedAt)
	if err != nil {
		return nil, storeError(err)
	}
	article.ID = id

	c.log.Info("Article created", "article_id", article.ID, "slug", article.Slug, "author_id", author.ID)
	return article, nil
}

// UpdateArticle changes title, description and body. Slug, uuid, author and
// creation time stay as they are.
func (c *Core) UpdateArticle(ctx context.Context, article *models.Article, editor *models.Profile, in ArticleInput) (*models.Article, error) {
	if err := Authorize(editor, article); err != nil {
		return nil, err
	}

	updated := *article
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Body = in.Body
	updated.UpdatedAt = c.now()

	const updateSQL = `
		UPDATE articles
		SET title = $1, description = $2, body = $3, updated_at = $4
		WHERE id = $5 AND author_id = $6
	`
	affected, err := databaseutils.Execute(c.sqlTemplate, ctx, updateSQL,
		updated.Title, updated.Description, updated.Body, updated.UpdatedAt, article.ID, editor.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if affected == 0 {
		return nil, xerrors.New(NoRecordFound)
	}

	return &updated, nil
}

// DeleteArticle removes the article with its comments and favorites.
func (c *Core) DeleteArticle(ctx context.Context, article *models.Article, editor *models.Profile) error {
	if err := Authorize(editor, article); err != nil {
		return err
	}

	affected, err := databaseutils.Execute(c.sqlTemplate, ctx, `DELETE FROM articles WHERE id = $1 AND author_id = $2`, article.ID, editor.ID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	c.log.Info("Article deleted", "article_id", article.ID, "author_id", editor.ID)
	return nil
}

// ResolveArticle finds the article addressed by slug and id. Both must match.
func (c *Core) ResolveArticle(ctx context.Context, slug string, id uuid.UUID) (*models.Article, error) {
	query := selectArticleSQL + ` WHERE a.slug = $1 AND a.uuid = $2`
	article, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, slug, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return article, nil
}

// ListFeed yields every article, newest first. Ranging over the result again
// runs the query again.
func (c *Core) ListFeed(ctx context.Context) iter.Seq2[*models.Article, error] {
	return databaseutils.StreamQuery(c.sqlTemplate, ctx, selectArticleSQL+feedOrder, scanArticle)
}

// ListFollowedFeed yields the articles written by profiles viewer follows, newest first.
func (c *Core) ListFollowedFeed(ctx context.Context, viewer *models.Profile) iter.Seq2[*models.Article, error] {
	if err := requireIdentity(viewer); err != nil {
		return func(yield func(*models.Article, error) bool) {
			yield(nil, err)
		}
	}

	query := selectArticleSQL + `
		WHERE a.author_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
	` + feedOrder
	return databaseutils.StreamQuery(c.sqlTemplate, ctx, query, scanArticle, viewer.ID)
}

func (c *Core) ListArticlesByAuthor(ctx context.Context, author *models.Profile) iter.Seq2[*models.Article, error] {
	return databaseutils.StreamQuery(c.sqlTemplate, ctx, selectArticleSQL+` WHERE a.author_id = $1`+feedOrder, scanArticle, author.ID)
}
