package core

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
)

var (
	NoRecordFound         = xerrors.Message("No record found")
	ErrDuplicateEmail     = xerrors.Message("Duplicate email")
	ErrDuplicateUsername  = xerrors.Message("Duplicate username")
	ErrInvalidCredentials = xerrors.Message("Invalid credentials")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type Core struct {
	log         *slog.Logger
	db          *sql.DB
	session     databaseutils.Session
	sqlTemplate *databaseutils.SQLTemplate
	now         func() time.Time
}

func NewCore(dbConn *sql.DB, log *slog.Logger, session databaseutils.Session, sqlTemplate *databaseutils.SQLTemplate) *Core {
	return &Core{
		log:         log,
		db:          dbConn,
		session:     session,
		sqlTemplate: sqlTemplate,
		now:         time.Now,
	}
}

// Session exposes the transaction manager so callers can group several core
// operations into one transaction.
func (c *Core) Session() databaseutils.Session {
	return c.session
}

// uniqueConstraint returns the name of the violated unique constraint, if err is one.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return xerrors.New(NoRecordFound)
	}
	return xerrors.New(err)
}

// storeError maps a write that referenced a row deleted in the meantime to NoRecordFound.
func storeError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return xerrors.New(NoRecordFound)
	}
	return xerrors.New(err)
}

func (c *Core) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return xerrors.New(err)
	}
	return nil
}
