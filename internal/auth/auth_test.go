package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siahsang/conduit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func newTestAuth() *Auth {
	return New("test-secret", time.Hour, false, NewMemoryRevoker())
}

func TestUser_Password(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("correct horse"))
	assert.NotEqual(t, []byte("correct horse"), user.Password)

	match, err := user.IsPasswordMatch("correct horse")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = user.IsPasswordMatch("battery staple")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestAuth_TokenRoundTrip(t *testing.T) {
	a := newTestAuth()
	token, claim, err := a.GenerateToken(&User{ID: 42, Username: "jake"})
	require.NoError(t, err)

	parsed, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, parsed.ID)
	assert.Equal(t, "jake", parsed.Username)

	id, err := parsed.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestAuth_RejectsForeignSecret(t *testing.T) {
	token, _, err := New("other-secret", time.Hour, false, NewMemoryRevoker()).GenerateToken(&User{ID: 1})
	require.NoError(t, err)

	_, err = newTestAuth().Authenticate(context.Background(), token)
	assert.Error(t, err)
}

func TestAuth_RejectsExpiredToken(t *testing.T) {
	a := newTestAuth()
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := a.GenerateToken(&User{ID: 1})
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.Authenticate(context.Background(), token)
	assert.Error(t, err)
}

func TestAuth_RevokedTokenIsRejected(t *testing.T) {
	a := newTestAuth()
	ctx := context.Background()
	token, claim, err := a.GenerateToken(&User{ID: 7})
	require.NoError(t, err)

	require.NoError(t, a.Revoke(ctx, claim))

	_, err = a.Authenticate(ctx, token)
	assert.True(t, errors.Is(err, ErrRevokedToken))
}

func TestAuth_RequestContext(t *testing.T) {
	a := newTestAuth()
	r := httptest.NewRequest("GET", "/", nil)

	assert.False(t, a.IsUserAuthenticated(r))
	assert.Nil(t, a.CurrentProfile(r))

	profile := &models.Profile{ID: 3, Username: "jake"}
	claim := &UserClaim{Username: "jake"}
	r = a.SetAuthenticatedUser(r, &User{ID: 1, Profile: profile}, claim)

	assert.True(t, a.IsUserAuthenticated(r))
	assert.Same(t, profile, a.CurrentProfile(r))
	got, ok := a.GetSessionClaim(r)
	assert.True(t, ok)
	assert.Same(t, claim, got)
}

func TestAuth_SessionCookie(t *testing.T) {
	a := New("s", time.Hour, true, NewMemoryRevoker())
	token, claim, err := a.GenerateToken(&User{ID: 1})
	require.NoError(t, err)

	cookie := a.SessionCookie(token, claim)
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, token, cookie.Value)

	cleared := a.ClearedSessionCookie()
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
