package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
)

const uniqueViolation = "23505"

// PostgresUserRepository implements UserRepository on PostgreSQL.
type PostgresUserRepository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewPostgresUserRepository creates a PostgreSQL user repository.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:     db,
		logger: log.WithField("component", "user-repository"),
	}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		u.Name, u.PasswordHash, u.Role,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.ErrUserExists
		}
		r.logger.WithError(err).WithField("name", u.Name).Error("user insert failed")
		return err
	}

	r.logger.WithFields(log.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	return nil
}

func (r *PostgresUserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.get(ctx, `SELECT id, name, password_hash, role FROM users WHERE name = $1`, name)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, `SELECT id, name, password_hash, role FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) get(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
