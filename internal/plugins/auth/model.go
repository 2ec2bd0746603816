// Package auth handles login and the authentication gate. Users come from a
// read-only repository (built-in fixtures or MariaDB); an authenticated
// session carries the user's ID under the "userId" key.
//
// This is a CORE plugin -- always enabled.
package auth

import (
	"github.com/google/uuid"
)

// User is a shopper who can log in.
//
// Password is stored and compared in plaintext. That is a known security
// defect of this demo: it must become a salted argon2id hash before the
// repository holds real credentials.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LoginInput is the input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// DefaultUsers returns the built-in shoppers. IDs are generated per call,
// so each process start gets fresh ones.
func DefaultUsers() []User {
	return []User{
		{ID: uuid.NewString(), Name: "Alice", Email: "alice@example.com", Password: "password1"},
		{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com", Password: "password2"},
		{ID: uuid.NewString(), Name: "Charlie", Email: "charlie@example.com", Password: "password3"},
	}
}
