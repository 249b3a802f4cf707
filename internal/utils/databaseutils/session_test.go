package databaseutils

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSession(t *testing.T) (*sql.DB, Session, *SQLTemplate, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewSession(db), NewSQLTemplate(db, time.Second), mock
}

func TestDoTransactionally_CommitsOnSuccess(t *testing.T) {
	_, session, tmpl, mock := setupSession(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE things`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := DoTransactionally(context.Background(), session, func(txCtx context.Context) (int64, error) {
		return Execute(tmpl, txCtx, `UPDATE things SET x = 1`)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoTransactionally_RollsBackOnError(t *testing.T) {
	_, session, _, mock := setupSession(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := DoTransactionally(context.Background(), session, func(txCtx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoTransactionally_RollsBackOnPanic(t *testing.T) {
	_, session, _, mock := setupSession(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = session.DoTransactionally(context.Background(), func(txCtx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoTransactionally_NestedCallJoinsOuterTransaction(t *testing.T) {
	_, session, _, mock := setupSession(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := session.DoTransactionally(context.Background(), func(outer context.Context) error {
		return session.DoTransactionally(outer, func(inner context.Context) error {
			assert.Equal(t, outer, inner)
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "only one transaction is opened")
}

func TestGetSQLExecutor(t *testing.T) {
	db, session, _, mock := setupSession(t)
	mock.ExpectBegin()

	assert.Equal(t, SQLExecutor(db), GetSQLExecutor(context.Background(), db))

	txSession, err := session.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, txSession.GetExecutor(), GetSQLExecutor(txSession.Context(), db))
}

func TestExecuteSingleQuery_NoRows(t *testing.T) {
	_, _, tmpl, mock := setupSession(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM things`)).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := ExecuteSingleQuery(tmpl, context.Background(), `SELECT id FROM things`, func(rows *sql.Rows) (int64, error) {
		var id int64
		return id, rows.Scan(&id)
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStreamQuery_PropagatesQueryError(t *testing.T) {
	_, _, tmpl, mock := setupSession(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM things`)).WillReturnError(boom)

	var errs []error
	for _, err := range StreamQuery(tmpl, context.Background(), `SELECT id FROM things`, func(rows *sql.Rows) (int64, error) {
		var id int64
		return id, rows.Scan(&id)
	}) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}
