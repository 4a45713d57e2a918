package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

func TestReceiptOwnership(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	queries := NewOrderQueryService(repo)

	require.NoError(t, repo.Users().Create(ctx, &models.User{Name: "ana", Role: models.RoleCustomer}))
	require.NoError(t, repo.Users().Create(ctx, &models.User{Name: "eve", Role: models.RoleCustomer}))
	p := seedTestProduct(t, repo, "Teclado", "45.00", 10)

	orderID, _, err := repo.QuickPurchase(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	owner := &session.State{UserID: 1, Role: models.RoleCustomer}
	receipt, err := queries.Receipt(ctx, orderID, owner)
	require.NoError(t, err)
	assert.Equal(t, orderID, receipt.OrderID)

	// Another customer cannot read it.
	stranger := &session.State{UserID: 2, Role: models.RoleCustomer}
	_, err = queries.Receipt(ctx, orderID, stranger)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// An admin can.
	admin := &session.State{UserID: 3, Role: models.RoleAdmin}
	_, err = queries.Receipt(ctx, orderID, admin)
	assert.NoError(t, err)
}

func TestReceiptUnknownOrder(t *testing.T) {
	queries := NewOrderQueryService(repository.NewMemory())
	requester := &session.State{UserID: 1, Role: models.RoleCustomer}

	_, err := queries.Receipt(context.Background(), 42, requester)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	queries := NewOrderQueryService(repo)

	p := seedTestProduct(t, repo, "Mouse", "20.00", 10)

	first, _, err := repo.QuickPurchase(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	second, _, err := repo.QuickPurchase(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	_, _, err = repo.QuickPurchase(ctx, 2, p.ID, 1)
	require.NoError(t, err)

	history, err := queries.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second, history[0].OrderID)
	assert.Equal(t, first, history[1].OrderID)
}
