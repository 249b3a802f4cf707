package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
)

const selectCommentSQL = `
	SELECT c.id, c.body, c.author_id, c.article_id, c.created_at,
		p.id, p.user_id, u.username, p.image_url, p.bio
	FROM comments c
	JOIN profiles p ON p.id = c.author_id
	JOIN users u ON u.id = p.user_id
`

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	comment := &models.Comment{Author: &models.Profile{}}
	if err := rows.Scan(
		&comment.ID,
		&comment.Body,
		&comment.AuthorID,
		&comment.ArticleID,
		&comment.CreatedAt,
		&comment.Author.ID,
		&comment.Author.UserID,
		&comment.Author.Username,
		&comment.Author.Image,
		&comment.Author.Bio,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return comment, nil
}

func (c *Core) CreateComment(ctx context.Context, article *models.Article, author *models.Profile, in CommentInput) (*models.Comment, error) {
	if err := requireIdentity(author); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      in.Body,
		AuthorID:  author.ID,
		Author:    author,
		ArticleID: article.ID,
		CreatedAt: c.now(),
	}

	const insertSQL = `
		INSERT INTO comments (body, author_id, article_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	id, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	}, comment.Body, comment.AuthorID, comment.ArticleID, comment.CreatedAt)
	if err != nil {
		return nil, storeError(err)
	}
	comment.ID = id

	return comment, nil
}

// GetComment looks the comment up within article only.
func (c *Core) GetComment(ctx context.Context, article *models.Article, id int64) (*models.Comment, error) {
	comment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectCommentSQL+` WHERE c.id = $1 AND c.article_id = $2`, scanComment, id, article.ID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return comment, nil
}

func (c *Core) ListComments(ctx context.Context, article *models.Article) ([]*models.Comment, error) {
	query := selectCommentSQL + ` WHERE c.article_id = $1 ORDER BY c.created_at DESC, c.id DESC`
	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, article.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return comments, nil
}

func (c *Core) DeleteComment(ctx context.Context, comment *models.Comment, editor *models.Profile) error {
	if err := Authorize(editor, comment); err != nil {
		return err
	}

	affected, err := databaseutils.Execute(c.sqlTemplate, ctx, `DELETE FROM comments WHERE id = $1 AND author_id = $2`, comment.ID, editor.ID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}
	return nil
}
