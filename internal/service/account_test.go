package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(repository.NewMemory().Users())

	user, err := accounts.Register(ctx, "ana", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "hunter2", user.PasswordHash, "password must not be stored in clear")

	logged, err := accounts.Login(ctx, "ana", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterDuplicateName(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(repository.NewMemory().Users())

	_, err := accounts.Register(ctx, "ana", "hunter2")
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "ana", "other")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(repository.NewMemory().Users())

	_, err := accounts.Register(ctx, "ana", "hunter2")
	require.NoError(t, err)

	// Unknown user and wrong password surface the same error.
	_, unknownErr := accounts.Login(ctx, "nobody", "hunter2")
	_, wrongErr := accounts.Login(ctx, "ana", "wrong")

	assert.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, apperrors.ErrInvalidCredentials)
}

func TestCredentialValidation(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(repository.NewMemory().Users())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"blank username", "  ", "secret"},
		{"empty username", "", "secret"},
		{"empty password", "ana", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.Register(ctx, tt.username, tt.password)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	accounts := NewAccountService(repo.Users())

	require.NoError(t, accounts.EnsureAdmin(ctx, "admin", "changeme"))

	admin, err := repo.Users().GetByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// A second boot is a no-op.
	require.NoError(t, accounts.EnsureAdmin(ctx, "admin", "changeme"))
	count, err := repo.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Empty password disables seeding.
	other := NewAccountService(repository.NewMemory().Users())
	require.NoError(t, other.EnsureAdmin(ctx, "admin", ""))
}
