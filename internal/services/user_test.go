package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestUserService_SignUp(t *testing.T) {
	ctx := context.Background()
	expiry := time.Hour

	t.Run("success", func(t *testing.T) {
		ur := newFakeUserRepo()
		emails := &fakeEmailService{}
		svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, expiry, emails)

		token, user, err := svc.SignUp(ctx, "Ada", "Ada@Example.com", "longenough")

		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		assert.Equal(t, "token-"+user.ID, token)
		assert.Equal(t, "ada@example.com", user.Email, "email is normalized")
		require.NotNil(t, user.SessionToken)
		assert.Equal(t, token, *user.SessionToken)

		stored := ur.byID[user.ID]
		require.NotNil(t, stored.SessionToken)
		assert.Equal(t, token, *stored.SessionToken)

		require.Len(t, emails.welcome, 1)
		assert.Equal(t, "ada@example.com", emails.welcome[0].Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ur := newFakeUserRepo()
		ur.add(&domain.User{Name: "Ada", Email: "ada@example.com"})
		svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, expiry, nil)

		_, _, err := svc.SignUp(ctx, "Other Ada", "ada@example.com", "longenough")

		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			userName string
			email    string
			password string
		}{
			{"empty name", "", "ada@example.com", "longenough"},
			{"bad email", "Ada", "not-an-email", "longenough"},
			{"short password", "Ada", "ada@example.com", "short"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ur := newFakeUserRepo()
				svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, expiry, nil)

				_, _, err := svc.SignUp(ctx, tt.userName, tt.email, tt.password)

				require.Error(t, err)
				assert.Empty(t, ur.byID)
			})
		}
	})

	t.Run("welcome email failure is swallowed", func(t *testing.T) {
		ur := newFakeUserRepo()
		emails := &fakeEmailService{err: context.DeadlineExceeded}
		svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, expiry, emails)

		_, user, err := svc.SignUp(ctx, "Ada", "ada@example.com", "longenough")

		require.NoError(t, err)
		require.NotNil(t, user)
	})
}

func TestUserService_SignIn(t *testing.T) {
	ctx := context.Background()
	expiry := time.Hour

	signedUp := func(t *testing.T) (*fakeUserRepo, domain.UserService, *domain.User) {
		t.Helper()
		ur := newFakeUserRepo()
		svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, expiry, nil)
		_, user, err := svc.SignUp(ctx, "Ada", "ada@example.com", "longenough")
		require.NoError(t, err)
		return ur, svc, user
	}

	t.Run("success replaces the session token", func(t *testing.T) {
		ur, svc, user := signedUp(t)
		first := *ur.byID[user.ID].SessionToken

		token, signedIn, err := svc.SignIn(ctx, "ADA@example.com", "longenough")

		require.NoError(t, err)
		assert.Equal(t, user.ID, signedIn.ID)
		require.NotNil(t, ur.byID[user.ID].SessionToken)
		assert.Equal(t, token, *ur.byID[user.ID].SessionToken)
		// Same fake issuer yields the same token string, but the write
		// happened again: the stored value must match the returned one.
		assert.Equal(t, first, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, svc, _ := signedUp(t)

		_, _, err := svc.SignIn(ctx, "ada@example.com", "wrongwrong")

		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, svc, _ := signedUp(t)

		_, _, err := svc.SignIn(ctx, "nobody@example.com", "longenough")

		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_SignOut(t *testing.T) {
	ctx := context.Background()
	expiry := time.Hour

	ur := newFakeUserRepo()
	svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, expiry, nil)
	_, user, err := svc.SignUp(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	connID := "conn-1"
	ur.byID[user.ID].ConnectionID = &connID

	require.NoError(t, svc.SignOut(ctx, user.ID))

	stored := ur.byID[user.ID]
	assert.Nil(t, stored.SessionToken, "session token is cleared")
	assert.Nil(t, stored.ConnectionID, "live connection is detached")
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	ur := newFakeUserRepo()
	user := ur.add(&domain.User{Name: "Ada", Email: "ada@example.com"})
	svc := NewUserService(ur, fakeHasher{}, &fakeTokenIssuer{}, time.Hour, nil)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
