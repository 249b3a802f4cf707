package core

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "username", "password", "p_id", "p_user_id", "image_url", "bio"}

func TestCore_CreateUser_CreatesProfileInSameTransaction(t *testing.T) {
	c, mock := setupCore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, password)`)).
		WithArgs("jake", "jake@jake.jake", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO profiles (user_id, image_url, bio)`)).
		WithArgs(1, models.DefaultProfileImage).
		WillReturnRows(sqlmock.NewRows([]string{"id", "image_url", "bio"}).AddRow(5, models.DefaultProfileImage, ""))
	mock.ExpectCommit()

	user, err := c.CreateUser(context.Background(), SignupInput{Username: "jake", Email: "jake@jake.jake", Password: "jakejake"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, int64(5), user.Profile.ID)
	assert.Equal(t, "jake", user.Profile.Username)
	assert.NotEqual(t, []byte("jakejake"), user.Password, "password must be hashed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCore_CreateUser_DuplicateEmail(t *testing.T) {
	c, mock := setupCore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	_, err := c.CreateUser(context.Background(), SignupInput{Username: "jake", Email: "jake@jake.jake", Password: "jakejake"})
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCore_CreateUser_DuplicateUsername(t *testing.T) {
	c, mock := setupCore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	_, err := c.CreateUser(context.Background(), SignupInput{Username: "jake", Email: "jake@jake.jake", Password: "jakejake"})
	assert.True(t, errors.Is(err, ErrDuplicateUsername))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCore_Login(t *testing.T) {
	stored := &auth.User{}
	require.NoError(t, stored.SetPassword("jakejake"))

	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(userColumns).AddRow(1, "jake@jake.jake", "jake", stored.Password, 5, 1, models.DefaultProfileImage, "")
	}

	t.Run("valid credentials", func(t *testing.T) {
		c, mock := setupCore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE u.email = $1`)).WithArgs("jake@jake.jake").WillReturnRows(userRow())

		user, err := c.Login(context.Background(), LoginInput{Email: "jake@jake.jake", Password: "jakejake"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), user.Profile.ID)
		assert.Equal(t, "jake", user.Profile.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		c, mock := setupCore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE u.email = $1`)).WillReturnRows(userRow())

		_, err := c.Login(context.Background(), LoginInput{Email: "jake@jake.jake", Password: "wrong-password"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("unknown email", func(t *testing.T) {
		c, mock := setupCore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE u.email = $1`)).WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := c.Login(context.Background(), LoginInput{Email: "nobody@jake.jake", Password: "jakejake"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})
}

func TestCore_GetUserByID_NotFound(t *testing.T) {
	c, mock := setupCore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE u.id = $1`)).WithArgs(99).WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := c.GetUserByID(context.Background(), 99)
	assert.True(t, errors.Is(err, NoRecordFound))
}

func TestCore_UpdateSettings_KeepsPasswordWhenBlank(t *testing.T) {
	c, mock := setupCore(t)
	user := &auth.User{ID: 1, Username: "jake", Email: "jake@jake.jake", Password: []byte("old-hash")}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs("jacob", "jacob@jake.jake", []byte("old-hash"), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "password"}).AddRow(1, "jacob@jake.jake", "jacob", []byte("old-hash")))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE profiles`)).
		WithArgs(models.DefaultProfileImage, "I work at statefarm", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "image_url", "bio"}).AddRow(5, 1, models.DefaultProfileImage, "I work at statefarm"))
	mock.ExpectCommit()

	updated, err := c.UpdateSettings(context.Background(), user, SettingsInput{
		Username: "jacob",
		Email:    "jacob@jake.jake",
		Bio:      "I work at statefarm",
	})
	require.NoError(t, err)
	assert.Equal(t, "jacob", updated.Profile.Username)
	assert.Equal(t, "I work at statefarm", updated.Profile.Bio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCore_UpdateSettings_DuplicateUsernameRollsBack(t *testing.T) {
	c, mock := setupCore(t)
	user := &auth.User{ID: 1, Password: []byte("old-hash")}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	_, err := c.UpdateSettings(context.Background(), user, SettingsInput{Username: "anna", Email: "jake@jake.jake"})
	assert.True(t, errors.Is(err, ErrDuplicateUsername))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCore_DeleteUser(t *testing.T) {
	c, mock := setupCore(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE username = $1`)).WithArgs("jake").WillReturnResult(affected(1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE username = $1`)).WithArgs("ghost").WillReturnResult(affected(0))

	assert.NoError(t, c.DeleteUser(context.Background(), "jake"))
	assert.True(t, errors.Is(c.DeleteUser(context.Background(), "ghost"), NoRecordFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
