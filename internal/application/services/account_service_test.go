package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalist/backend/internal/adapters/memory"
	"github.com/casalist/backend/internal/application/services"
	apperrors "github.com/casalist/backend/pkg/errors"
)

// stubHasher avoids bcrypt's work factor in service tests.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hash:" + plaintext, nil }
func (stubHasher) Verify(hash, plaintext string) bool    { return hash == "hash:"+plaintext }

func newAccountService() *services.AccountService {
	return services.NewAccountService(memory.NewStore().Accounts(), stubHasher{})
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with hashed credential", func(t *testing.T) {
		service := newAccountService()

		account, err := service.Create(ctx, services.CreateAccountInput{
			FirstName: "Ann",
			LastName:  "Lee",
			Email:     "ann@example.com",
			Password:  "secret",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, account.ID)
		assert.Equal(t, "ann@example.com", account.Email)
		assert.False(t, account.IsAdmin)
		assert.Equal(t, account.CreatedAt, account.UpdatedAt)
		assert.True(t, service.VerifyPassword(account, "secret"))
		assert.False(t, service.VerifyPassword(account, "wrong"))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		service := newAccountService()

		_, err := service.Create(ctx, services.CreateAccountInput{
			Email:    "not-an-email",
			Password: "secret",
		})

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		service := newAccountService()

		_, err := service.Create(ctx, services.CreateAccountInput{
			Email: "ann@example.com",
		})

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service := newAccountService()

		_, err := service.Create(ctx, services.CreateAccountInput{
			Email: "ann@example.com", Password: "secret",
		})
		require.NoError(t, err)

		_, err = service.Create(ctx, services.CreateAccountInput{
			Email: "ann@example.com", Password: "other",
		})

		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial patch", func(t *testing.T) {
		service := newAccountService()
		account, err := service.Create(ctx, services.CreateAccountInput{
			FirstName: "Ann", LastName: "Lee",
			Email: "ann@example.com", Password: "secret",
		})
		require.NoError(t, err)

		name := "Anna"
		updated, err := service.Update(ctx, account.ID, services.AccountPatch{FirstName: &name})

		require.NoError(t, err)
		assert.Equal(t, "Anna", updated.FirstName)
		assert.Equal(t, "Lee", updated.LastName)
		assert.Equal(t, "ann@example.com", updated.Email)
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		service := newAccountService()

		updated, err := service.Update(ctx, "missing", services.AccountPatch{})

		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("rejects email taken by another account", func(t *testing.T) {
		service := newAccountService()
		_, err := service.Create(ctx, services.CreateAccountInput{
			Email: "first@example.com", Password: "secret",
		})
		require.NoError(t, err)
		second, err := service.Create(ctx, services.CreateAccountInput{
			Email: "second@example.com", Password: "secret",
		})
		require.NoError(t, err)

		email := "first@example.com"
		_, err = service.Update(ctx, second.ID, services.AccountPatch{Email: &email})

		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("allows re-saving own email", func(t *testing.T) {
		service := newAccountService()
		account, err := service.Create(ctx, services.CreateAccountInput{
			Email: "ann@example.com", Password: "secret",
		})
		require.NoError(t, err)

		email := "ann@example.com"
		updated, err := service.Update(ctx, account.ID, services.AccountPatch{Email: &email})

		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", updated.Email)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the credential", func(t *testing.T) {
		service := newAccountService()
		account, err := service.Create(ctx, services.CreateAccountInput{
			Email: "ann@example.com", Password: "old",
		})
		require.NoError(t, err)

		updated, err := service.ChangePassword(ctx, account.ID, "new")

		require.NoError(t, err)
		assert.True(t, service.VerifyPassword(updated, "new"))
		assert.False(t, service.VerifyPassword(updated, "old"))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		service := newAccountService()

		_, err := service.ChangePassword(ctx, "any", "")

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestAccountService_GetByEmail(t *testing.T) {
	ctx := context.Background()
	service := newAccountService()

	created, err := service.Create(ctx, services.CreateAccountInput{
		Email: "ann@example.com", Password: "secret",
	})
	require.NoError(t, err)

	found, err := service.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := service.GetByEmail(ctx, "other@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAccountService_Delete(t *testing.T) {
	ctx := context.Background()
	service := newAccountService()

	account, err := service.Create(ctx, services.CreateAccountInput{
		Email: "ann@example.com", Password: "secret",
	})
	require.NoError(t, err)

	deleted, err := service.Delete(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	again, err := service.Delete(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, again)

	got, err := service.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
