package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
)

// ValidateQuantity rejects non-positive purchase quantities.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return apperrors.NewValidationError("quantity", "quantity must be positive")
	}
	return nil
}

// ValidateProductInput checks admin product submissions before insert.
func ValidateProductInput(name string, price decimal.Decimal, stock int) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	if price.IsNegative() {
		return apperrors.NewValidationError("price", "price cannot be negative")
	}
	if stock < 0 {
		return apperrors.NewValidationError("stock", "stock cannot be negative")
	}
	return nil
}

// ValidateCredentials checks registration/login input.
func ValidateCredentials(name, password string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("username", "username is required")
	}
	if password == "" {
		return apperrors.NewValidationError("password", "password is required")
	}
	return nil
}
