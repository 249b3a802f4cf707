package core

import (
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/models"
)

var (
	ErrUnauthenticated = xerrors.Message("Authentication required")
	ErrNotOwner        = xerrors.Message("Only the author may change this resource")
)

// Owned is implemented by content that has exactly one authoring profile.
type Owned interface {
	OwnerID() int64
}

// Authorize reports whether actor may mutate resource. A nil actor is anonymous.
func Authorize(actor *models.Profile, resource Owned) error {
	if actor == nil {
		return xerrors.New(ErrUnauthenticated)
	}
	if resource.OwnerID() != actor.ID {
		return xerrors.New(ErrNotOwner)
	}
	return nil
}

func requireIdentity(actor *models.Profile) error {
	if actor == nil {
		return xerrors.New(ErrUnauthenticated)
	}
	return nil
}
