package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/sanitize"
)

// UserRepository defines the read-only data access contract for users.
type UserRepository interface {
	// FindByCredentials returns the user whose email and password both match
	// exactly. Returns apperror.NotFound otherwise, without saying which
	// field was wrong.
	FindByCredentials(ctx context.Context, email, password string) (*User, error)

	// FindByID returns the user with the given ID or apperror.NotFound.
	FindByID(ctx context.Context, id string) (*User, error)
}

// --- In-memory repository ---

// memoryUserRepository serves a fixed slice of users. It is never mutated
// after construction, so it is safe for concurrent use without locking.
type memoryUserRepository struct {
	users []User
}

// NewMemoryUserRepository creates a repository over a copy of users.
func NewMemoryUserRepository(users []User) UserRepository {
	return &memoryUserRepository{users: append([]User(nil), users...)}
}

// FindByCredentials scans linearly for an exact email and password match.
func (r *memoryUserRepository) FindByCredentials(_ context.Context, email, password string) (*User, error) {
	for i := range r.users {
		u := r.users[i]
		if u.Email == email && passwordsEqual(u.Password, password) {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFound("user not found")
}

// FindByID scans linearly for the given ID.
func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NewNotFound("user not found")
}

// --- MariaDB repository ---

// mariadbUserRepository reads users from the users table.
type mariadbUserRepository struct {
	db *sql.DB
}

// NewMariaDBUserRepository creates a user repository backed by the given DB pool.
func NewMariaDBUserRepository(db *sql.DB) UserRepository {
	return &mariadbUserRepository{db: db}
}

// FindByCredentials looks the user up by email and compares the password in
// Go so the comparison is constant-time.
func (r *mariadbUserRepository) FindByCredentials(ctx context.Context, email, password string) (*User, error) {
	query := `SELECT id, name, email, password FROM users WHERE email = ?`

	u, err := r.scanOne(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, err
	}
	// MariaDB's default collation compares case-insensitively; login is exact.
	if u.Email != email || !passwordsEqual(u.Password, password) {
		return nil, apperror.NewNotFound("user not found")
	}
	return u, nil
}

// FindByID retrieves a user by UUID.
func (r *mariadbUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, name, email, password FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *mariadbUserRepository) scanOne(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.Name = sanitize.PlainText(u.Name)
	return u, nil
}

// passwordsEqual compares two plaintext passwords in constant time.
func passwordsEqual(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
