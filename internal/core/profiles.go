package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
)

const selectProfileSQL = `
	SELECT p.id, p.user_id, u.username, p.image_url, p.bio
	FROM profiles p
	JOIN users u ON u.id = p.user_id
`

func scanProfile(rows *sql.Rows) (*models.Profile, error) {
	profile := &models.Profile{}
	if err := rows.Scan(&profile.ID, &profile.UserID, &profile.Username, &profile.Image, &profile.Bio); err != nil {
		return nil, xerrors.New(err)
	}
	return profile, nil
}

func (c *Core) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectProfileSQL+` WHERE u.username = $1`, scanProfile, username)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return profile, nil
}

// ListFollowees returns the profiles followed by profile, ordered by username.
func (c *Core) ListFollowees(ctx context.Context, profile *models.Profile) ([]*models.Profile, error) {
	query := selectProfileSQL + `
		JOIN follows f ON f.followee_id = p.id
		WHERE f.follower_id = $1
		ORDER BY u.username
	`
	followees, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanProfile, profile.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return followees, nil
}

// Follow adds the edge follower -> followee. Following twice changes nothing.
func (c *Core) Follow(ctx context.Context, follower, followee *models.Profile) error {
	if err := requireIdentity(follower); err != nil {
		return err
	}

	const insertSQL = `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := databaseutils.Execute(c.sqlTemplate, ctx, insertSQL, follower.ID, followee.ID); err != nil {
		return storeError(err)
	}
	return nil
}

// Unfollow removes the edge follower -> followee if it exists.
func (c *Core) Unfollow(ctx context.Context, follower, followee *models.Profile) error {
	if err := requireIdentity(follower); err != nil {
		return err
	}

	const deleteSQL = `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2
	`
	if _, err := databaseutils.Execute(c.sqlTemplate, ctx, deleteSQL, follower.ID, followee.ID); err != nil {
		return xerrors.New(err)
	}
	return nil
}

// IsFollowing is false for an anonymous follower.
func (c *Core) IsFollowing(ctx context.Context, follower, followee *models.Profile) (bool, error) {
	if follower == nil {
		return false, nil
	}

	const selectSQL = `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		)
	`
	following, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectSQL, scanBool, follower.ID, followee.ID)
	if err != nil {
		return false, xerrors.New(err)
	}
	return following, nil
}

// ToggleFollow flips the edge and reports whether follower follows followee afterwards.
func (c *Core) ToggleFollow(ctx context.Context, follower, followee *models.Profile) (bool, error) {
	if err := requireIdentity(follower); err != nil {
		return false, err
	}

	return databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (bool, error) {
		following, err := c.IsFollowing(txCtx, follower, followee)
		if err != nil {
			return false, err
		}
		if following {
			return false, c.Unfollow(txCtx, follower, followee)
		}
		return true, c.Follow(txCtx, follower, followee)
	})
}

func scanBool(rows *sql.Rows) (bool, error) {
	var b bool
	err := rows.Scan(&b)
	return b, err
}
