package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/siahsang/conduit/models"
)

const selectUserSQL = `
	SELECT u.id, u.email, u.username, u.password, p.id, p.user_id, p.image_url, p.bio
	FROM users u
	JOIN profiles p ON p.user_id = u.id
`

func scanUser(rows *sql.Rows) (*auth.User, error) {
	user := &auth.User{Profile: &models.Profile{}}
	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Profile.ID,
		&user.Profile.UserID,
		&user.Profile.Image,
		&user.Profile.Bio,
	); err != nil {
		return nil, xerrors.New(err)
	}
	user.Profile.Username = user.Username
	return user, nil
}

func userConstraintError(err error) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "users_email_key":
			return xerrors.New(ErrDuplicateEmail)
		case "users_username_key":
			return xerrors.New(ErrDuplicateUsername)
		}
	}
	return xerrors.New(err)
}

// CreateUser stores a new user together with its profile in one transaction.
func (c *Core) CreateUser(ctx context.Context, in SignupInput) (*auth.User, error) {
	user := &auth.User{
		Email:    in.Email,
		Username: in.Username,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	return databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*auth.User, error) {
		const insertUserSQL = `
			INSERT INTO users (username, email, password)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		userID, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, insertUserSQL, func(rows *sql.Rows) (int64, error) {
			var id int64
			err := rows.Scan(&id)
			return id, err
		}, user.Username, user.Email, user.Password)
		if err != nil {
			return nil, userConstraintError(err)
		}
		user.ID = userID

		const insertProfileSQL = `
			INSERT INTO profiles (user_id, image_url, bio)
			VALUES ($1, $2, '')
			RETURNING id, image_url, bio
		`
		profile, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, insertProfileSQL, func(rows *sql.Rows) (*models.Profile, error) {
			profile := &models.Profile{UserID: userID, Username: user.Username}
			err := rows.Scan(&profile.ID, &profile.Image, &profile.Bio)
			return profile, err
		}, userID, models.DefaultProfileImage)
		if err != nil {
			return nil, xerrors.New(err)
		}
		user.Profile = profile

		c.log.Info("User created", "user_id", user.ID, "username", user.Username)
		return user, nil
	})
}

func (c *Core) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectUserSQL+` WHERE u.id = $1`, scanUser, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user, nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectUserSQL+` WHERE u.email = $1`, scanUser, email)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user, nil
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, selectUserSQL+` WHERE u.username = $1`, scanUser, username)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return user, nil
}

// Login checks the credentials. An unknown email and a wrong password are
// reported the same way.
func (c *Core) Login(ctx context.Context, in LoginInput) (*auth.User, error) {
	user, err := c.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, NoRecordFound) {
			return nil, xerrors.New(ErrInvalidCredentials)
		}
		return nil, err
	}

	match, err := user.IsPasswordMatch(in.Password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, xerrors.New(ErrInvalidCredentials)
	}
	return user, nil
}

func (c *Core) UpdateSettings(ctx context.Context, user *auth.User, in SettingsInput) (*auth.User, error) {
	password := user.Password
	if in.Password != "" {
		changed := &auth.User{}
		if err := changed.SetPassword(in.Password); err != nil {
			return nil, err
		}
		password = changed.Password
	}
	image := in.Image
	if image == "" {
		image = models.DefaultProfileImage
	}

	return databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*auth.User, error) {
		const updateUserSQL = `
			UPDATE users
			SET username = $1, email = $2, password = $3
			WHERE id = $4
			RETURNING id, email, username, password
		`
		updated, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, updateUserSQL, func(rows *sql.Rows) (*auth.User, error) {
			u := &auth.User{}
			err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.Password)
			return u, err
		}, in.Username, in.Email, password, user.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, xerrors.New(NoRecordFound)
			}
			return nil, userConstraintError(err)
		}

		const updateProfileSQL = `
			UPDATE profiles
			SET image_url = $1, bio = $2
			WHERE user_id = $3
			RETURNING id, user_id, image_url, bio
		`
		profile, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, updateProfileSQL, func(rows *sql.Rows) (*models.Profile, error) {
			p := &models.Profile{Username: updated.Username}
			err := rows.Scan(&p.ID, &p.UserID, &p.Image, &p.Bio)
			return p, err
		}, image, in.Bio, user.ID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		updated.Profile = profile

		c.log.Info("User updated Successfully", "user_id", updated.ID, "email", updated.Email)
		return updated, nil
	})
}

// DeleteUser removes the user. The profile and everything it authored go with it.
func (c *Core) DeleteUser(ctx context.Context, username string) error {
	affected, err := databaseutils.Execute(c.sqlTemplate, ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	c.log.Info("User deleted", "username", username)
	return nil
}
