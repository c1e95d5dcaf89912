package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smartnotes-backend/internal/shared/auth"
)

func newTestService() (*Service, *auth.Issuer) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := NewService(NewMemoryRepo(), issuer)
	svc.Cost = bcrypt.MinCost
	return svc, issuer
}

func TestSignupThenLogin(t *testing.T) {
	svc, issuer := newTestService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, " Ada ", " Ada@Example.com ", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Equal(t, "Ada", session.User.Name)
	assert.NotEqual(t, "secret-pw", session.User.PasswordHash)

	claims, err := issuer.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)

	login, err := svc.Login(ctx, "ADA@example.com", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "dup@example.com", "secret-pw")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "", "DUP@example.com", "other-pw")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "missing email", email: "", password: "secret-pw"},
		{name: "bad email", email: "not-an-email", password: "secret-pw"},
		{name: "display name form", email: "Ada <ada@example.com>", password: "secret-pw"},
		{name: "missing domain", email: "ada@", password: "secret-pw"},
		{name: "short password", email: "a@example.com", password: "123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), "", tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Signup(ctx, "", "user@example.com", "secret-pw")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "user@example.com", "wrong-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindByEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	session, err := svc.Signup(ctx, "", "bob@example.com", "secret-pw")
	require.NoError(t, err)

	found, err := svc.FindByEmail(ctx, "  BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, found.ID)

	_, err = svc.FindByEmail(ctx, "missing@example.com")
	assert.True(t, errors.Is(err, ErrNotFound))
}
