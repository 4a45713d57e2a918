package service

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
)

// AccountService handles registration and login. Passwords are stored as
// bcrypt hashes; registration always produces a customer account.
type AccountService struct {
	users  repository.UserRepository
	logger *log.Entry
}

// NewAccountService creates an account service.
func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{
		users:  users,
		logger: log.WithField("component", "account-service"),
	}
}

// Register creates a customer account with a unique name.
func (s *AccountService) Register(ctx context.Context, name, password string) (*models.User, error) {
	if err := ValidateCredentials(name, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("account registered")
	return user, nil
}

// EnsureAdmin creates the back-office account if it does not exist yet.
// A concurrent create by another replica is not an error.
func (s *AccountService) EnsureAdmin(ctx context.Context, name, password string) error {
	if password == "" {
		return nil
	}

	if _, err := s.users.GetByName(ctx, name); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         name,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			return nil
		}
		return err
	}

	s.logger.WithField("user_id", admin.ID).Info("admin account seeded")
	return nil
}

// Login verifies credentials and returns the account. Unknown names and
// wrong passwords both surface ErrInvalidCredentials so login failures
// don't reveal which half was wrong.
func (s *AccountService) Login(ctx context.Context, name, password string) (*models.User, error) {
	if err := ValidateCredentials(name, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("login succeeded")
	return user, nil
}
