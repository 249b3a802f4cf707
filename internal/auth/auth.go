package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/web"
	"github.com/siahsang/conduit/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	UserCtxKey        web.ContextKey = "user_data"
	ClaimCtxKey       web.ContextKey = "session_claim"
	SessionCookieName                = "conduit_session"
)

var (
	NotAuthenticatesUser = xerrors.Message("Not authenticated user")
	ErrRevokedToken      = xerrors.Message("Session has been revoked")
)

// PasswordCost is the bcrypt work factor used by SetPassword.
var PasswordCost = 12

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return xerrors.New(err)
	}

	user.PlaintextPassword = plainTextPassword
	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

type Auth struct {
	secret  []byte
	ttl     time.Duration
	secure  bool
	revoked Revoker
	now     func() time.Time
}

func New(secret string, ttl time.Duration, secureCookie bool, revoked Revoker) *Auth {
	return &Auth{
		secret:  []byte(secret),
		ttl:     ttl,
		secure:  secureCookie,
		revoked: revoked,
		now:     time.Now,
	}
}

func (auth *Auth) GenerateToken(user *User) (string, *UserClaim, error) {
	issuedAt := auth.now()
	claim := &UserClaim{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(auth.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", nil, xerrors.New(err)
	}
	return signedString, claim, nil
}

func (auth *Auth) Authenticate(ctx context.Context, tokenString string) (*UserClaim, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.secret, nil
	}, jwt.WithTimeFunc(auth.now))
	if err != nil {
		return nil, xerrors.New(err)
	}

	claim, ok := parsedToken.Claims.(*UserClaim)
	if !ok || !parsedToken.Valid {
		return nil, xerrors.New("invalid token")
	}

	revoked, err := auth.revoked.IsRevoked(ctx, claim.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if revoked {
		return nil, xerrors.New(ErrRevokedToken)
	}

	return claim, nil
}

// Revoke invalidates the session named by claim until it would have expired anyway.
func (auth *Auth) Revoke(ctx context.Context, claim *UserClaim) error {
	if claim == nil || claim.ExpiresAt == nil {
		return nil
	}
	if err := auth.revoked.Revoke(ctx, claim.ID, claim.ExpiresAt.Time); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (auth *Auth) SessionCookie(token string, claim *UserClaim) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  claim.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   auth.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (auth *Auth) ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   auth.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, UserCtxKey)
	if !ok || user == nil {
		return nil, NotAuthenticatesUser
	}

	return user, nil
}

// CurrentProfile is the acting profile of the request, nil for anonymous requests.
func (auth *Auth) CurrentProfile(r *http.Request) *models.Profile {
	user, err := auth.GetAuthenticatedUser(r)
	if err != nil {
		return nil
	}
	return user.Profile
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User, claim *UserClaim) *http.Request {
	r = web.AddValueToContext(r, UserCtxKey, user)
	return web.AddValueToContext(r, ClaimCtxKey, claim)
}

func (auth *Auth) GetSessionClaim(r *http.Request) (*UserClaim, bool) {
	return web.GetValueFromContext[*UserClaim](r, ClaimCtxKey)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}
