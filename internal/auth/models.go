package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/siahsang/conduit/models"
)

type User struct {
	ID                int64           `json:"-"`
	Email             string          `json:"email"`
	Username          string          `json:"username"`
	Password          []byte          `json:"-"`
	PlaintextPassword string          `json:"-"`
	Profile           *models.Profile `json:"profile"`
}

// UserClaim is the payload of a session token. The subject is the user id and
// the registered ID names the token for revocation.
type UserClaim struct {
	Username string `json:"username"`

	jwt.RegisteredClaims
}

func (claim *UserClaim) UserID() (int64, error) {
	return strconv.ParseInt(claim.Subject, 10, 64)
}
