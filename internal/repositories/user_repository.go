package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"comall/internal/models"
)

var (
	ErrDuplicateUser = errors.New("username or email already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

// UserRepository abstracts user directory persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, name, username, email, mobile, passwordHash string) (models.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (models.User, error)
	GetUser(ctx context.Context, userID string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new user. Uniqueness of username and email is
// enforced by the store in the same statement, so concurrent signups
// with a colliding username cannot both succeed.
func (r *UserRepo) CreateUser(ctx context.Context, name, username, email, mobile, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (id, name, username, email, mobile, password)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, name, username, email, mobile, password, created_at`,
		uuid.NewString(), name, username, email, mobile, passwordHash).
		StructScan(&user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByUsernameOrEmail finds a user by either unique handle.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, name, username, email, mobile, password, created_at
        FROM users WHERE username=$1 OR email=$1`, usernameOrEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, name, username, email, mobile, password, created_at
        FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListUsers returns the public projection of every user.
func (r *UserRepo) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := r.db.SelectContext(ctx, &users, `SELECT id, name, username, email FROM users ORDER BY username`)
	return users, err
}
