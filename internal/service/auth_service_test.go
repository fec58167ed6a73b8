package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/pkg/apierror"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newAuthService(t *testing.T) (*AuthService, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewAuthService(
		repository.NewUserRepository(),
		repository.NewTokenRepository(clock.Now),
		"test-secret",
		15*time.Minute,
		24*time.Hour,
		WithClock(clock.Now),
		WithHashCost(bcrypt.MinCost),
	)
	return svc, clock
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, err := svc.Register(ctx, model.RegisterRequest{Email: " Ada@Example.com ", Password: "pw", Name: "Ada"})
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "candidate", user.Role)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "ada@example.com", Password: "pw"})
	require.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	require.True(t, apierror.IsUnauthorized(err))

	pair, err := svc.Login(ctx, "ADA@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)
	require.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, "access")
	require.NoError(t, err)
	require.Equal(t, "1", claims.Subject)

	_, err = svc.ValidateToken(pair.RefreshToken, "access")
	require.Error(t, err)

	me, err := svc.Me(ctx, claims)
	require.NoError(t, err)
	require.Equal(t, "Ada", me.Name)
}

func TestAuthServiceRefreshRotates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.True(t, apierror.IsUnauthorized(err))

	_, err = svc.Refresh(ctx, rotated.AccessToken)
	require.True(t, apierror.IsUnauthorized(err))
}

func TestAuthServiceTokensExpire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, clock := newAuthService(t)

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)
	_, err = svc.ValidateToken(pair.AccessToken, "access")
	require.Error(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestAuthServiceLogoutRevokesRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	svc.Logout(ctx, pair.RefreshToken)
	svc.Logout(ctx, "garbage")

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.True(t, apierror.IsUnauthorized(err))
}

func TestAuthServiceGoogleLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAuthService(t)

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "grace@example.com",
		"name":  "Grace",
	}).SignedString([]byte("google-would-sign-this"))
	require.NoError(t, err)

	first, err := svc.LoginWithGoogle(ctx, idToken)
	require.NoError(t, err)
	second, err := svc.LoginWithGoogle(ctx, idToken)
	require.NoError(t, err)

	a, err := svc.ValidateToken(first.AccessToken, "access")
	require.NoError(t, err)
	b, err := svc.ValidateToken(second.AccessToken, "access")
	require.NoError(t, err)
	require.Equal(t, a.Subject, b.Subject)

	// Google-only accounts cannot log in with a password.
	_, err = svc.Login(ctx, "grace@example.com", "")
	require.True(t, apierror.IsUnauthorized(err))

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).SignedString([]byte("x"))
	require.NoError(t, err)
	_, err = svc.LoginWithGoogle(ctx, noEmail)
	require.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	_, err = svc.LoginWithGoogle(ctx, "not-a-jwt")
	require.True(t, apierror.IsUnauthorized(err))
}
