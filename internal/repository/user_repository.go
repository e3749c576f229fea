package repository

import (
	"context"
	"fmt"
	"time"

	model "github.com/zdziszkee/bankmap/internal/model"
)

const userColumns = "id, username, email, password_hash, is_superuser, is_active, date_joined, last_login"

// UserRepository defines the data operations on user accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ToggleSuperuser(ctx context.Context, id int64) (bool, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// SQLUserRepository implements UserRepository on PostgreSQL
type SQLUserRepository struct {
	db DBTX
}

// NewSQLUserRepository creates a new user repository
func NewSQLUserRepository(db DBTX) UserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, is_superuser, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, date_joined`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsSuperuser, user.IsActive,
	).Scan(&user.ID, &user.DateJoined)
	return wrapError("insert user", err)
}

func (r *SQLUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return nil, wrapError("select user", err)
	}
	return user, nil
}

func (r *SQLUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err != nil {
		return nil, wrapError("select user", err)
	}
	return user, nil
}

// List returns every account in ascending id order
func (r *SQLUserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, wrapError("list users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres scan user failed: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// ToggleSuperuser flips is_superuser in a single statement and returns the new value
func (r *SQLUserRepository) ToggleSuperuser(ctx context.Context, id int64) (bool, error) {
	var isSuperuser bool
	err := r.db.QueryRowContext(ctx,
		"UPDATE users SET is_superuser = NOT is_superuser WHERE id = $1 RETURNING is_superuser", id,
	).Scan(&isSuperuser)
	if err != nil {
		return false, wrapError("toggle superuser", err)
	}
	return isSuperuser, nil
}

func (r *SQLUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", at, id)
	if err != nil {
		return wrapError("update last login", err)
	}
	return expectAffected("update last login", res)
}

func scanUser(scanner rowScanner) (*model.User, error) {
	var user model.User
	err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsSuperuser,
		&user.IsActive,
		&user.DateJoined,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
