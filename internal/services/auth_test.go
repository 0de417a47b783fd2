package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventify/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc   domain.AuthService
	users *fakeUserRepo
	email *fakeEmailService
}

func newAuthFixture() *authFixture {
	users := newFakeUserRepo()
	email := &fakeEmailService{}
	svc := NewAuthService(users, fakeHasher{}, &fakeTokenIssuer{}, email, testLogger(), 24*time.Hour, 2*time.Second)
	return &authFixture{svc: svc, users: users, email: email}
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()

		result, err := f.svc.SignUp(ctx, "Ada@Example.com", "s3cret-pass", "Ada", "Lovelace")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", result.User.Email)
		assert.Equal(t, domain.RoleUser, result.User.Role)
		assert.True(t, result.User.IsActive)
		assert.Equal(t, "token-"+result.User.ID, result.Token)

		require.Len(t, f.email.welcomes, 1)
		assert.Equal(t, "ada@example.com", f.email.welcomes[0].Email)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.SignUp(ctx, "not-an-email", "s3cret-pass", "Ada", "Lovelace")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("short password", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.SignUp(ctx, "a@example.com", "short", "Ada", "Lovelace")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("missing name", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.SignUp(ctx, "a@example.com", "s3cret-pass", " ", "Lovelace")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.SignUp(ctx, "a@example.com", "s3cret-pass", "Ada", "Lovelace")
		require.NoError(t, err)

		_, err = f.svc.SignUp(ctx, "a@example.com", "s3cret-pass", "Grace", "Hopper")
		assert.True(t, errors.Is(err, domain.ErrEmailTaken))
	})

	t.Run("welcome email failure does not fail sign-up", func(t *testing.T) {
		f := newAuthFixture()
		f.email.err = errors.New("smtp down")

		result, err := f.svc.SignUp(ctx, "a@example.com", "s3cret-pass", "Ada", "Lovelace")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	signUp := func(f *authFixture) *domain.AuthResult {
		result, err := f.svc.SignUp(ctx, "a@example.com", "s3cret-pass", "Ada", "Lovelace")
		require.NoError(t, err)
		return result
	}

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		signUp(f)

		result, err := f.svc.Login(ctx, "A@Example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "a@example.com", result.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		signUp(f)

		_, err := f.svc.Login(ctx, "a@example.com", "wrong-pass")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newAuthFixture()
		result := signUp(f)
		_, err := f.users.SetActive(ctx, result.User.ID, false)
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, "a@example.com", "s3cret-pass")
		assert.True(t, errors.Is(err, domain.ErrUserInactive))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	result, err := f.svc.SignUp(ctx, "a@example.com", "s3cret-pass", "Ada", "Lovelace")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, result.User.ID, "wrong-pass", "new-s3cret-pass")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	})

	t.Run("short new password", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, result.User.ID, "s3cret-pass", "short")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("success", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, result.User.ID, "s3cret-pass", "new-s3cret-pass")
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, "a@example.com", "new-s3cret-pass")
		require.NoError(t, err)
		_, err = f.svc.Login(ctx, "a@example.com", "s3cret-pass")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	})
}
