package models

// Role of an authenticated user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SessionUser is the identity carried by the session cookie
type SessionUser struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserEntry is one row of the configured credential table.
// Either Password (plaintext, legacy) or PasswordHash (bcrypt) is set.
type UserEntry struct {
	Username     string `mapstructure:"username" json:"username"`
	Password     string `mapstructure:"password" json:"-"`
	PasswordHash string `mapstructure:"password_hash" json:"-"`
	Admin        bool   `mapstructure:"admin" json:"admin"`
}

// LoginRequest is the submitted login form
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
