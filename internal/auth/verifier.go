package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"resala-backend/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Verifier checks a username/password pair and returns the user's role
type Verifier interface {
	Verify(username, password string) (models.Role, error)
}

// UserTable verifies against a fixed list of users.
// Usernames match case-insensitively; passwords match exactly.
type UserTable struct {
	users map[string]models.UserEntry
}

func NewUserTable(entries []models.UserEntry) *UserTable {
	users := make(map[string]models.UserEntry, len(entries))
	for _, e := range entries {
		users[strings.ToLower(strings.TrimSpace(e.Username))] = e
	}
	return &UserTable{users: users}
}

func (t *UserTable) Verify(username, password string) (models.Role, error) {
	entry, ok := t.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return "", ErrInvalidCredentials
	}

	if entry.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)) != nil {
			return "", ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(entry.Password), []byte(password)) != 1 || entry.Password == "" {
		return "", ErrInvalidCredentials
	}

	if entry.Admin {
		return models.RoleAdmin, nil
	}
	return models.RoleUser, nil
}
