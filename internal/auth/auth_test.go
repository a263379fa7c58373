package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resala-backend/internal/models"
)

func TestUserTableVerify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	table := NewUserTable([]models.UserEntry{
		{Username: "karim", Password: "2425"},
		{Username: "Admin", Password: "admin123", Admin: true},
		{Username: "hashed", PasswordHash: string(hash)},
		{Username: "nopass"},
	})

	role, err := table.Verify("KARIM", "2425")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	role, err = table.Verify("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	role, err = table.Verify("hashed", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	for _, tc := range [][2]string{
		{"karim", "2426"},
		{"karim", "2425 "},
		{"nobody", "2425"},
		{"hashed", "wrong"},
		{"nopass", ""},
	} {
		_, err := table.Verify(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials, tc[0])
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 0)
	token, err := m.Generate(models.SessionUser{Username: "Admin", IsAdmin: true})
	require.NoError(t, err)

	user, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, user.IsAdmin)
}

func TestJWTRejectsTamperedAndExpired(t *testing.T) {
	m := NewJWTManager("secret", 0)
	token, err := m.Generate(models.SessionUser{Username: "karim"})
	require.NoError(t, err)

	_, err = NewJWTManager("other-secret", 0).Verify(token)
	assert.Error(t, err)

	_, err = m.Verify(token + "x")
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute)
	token, err = expired.Generate(models.SessionUser{Username: "karim"})
	require.NoError(t, err)
	_, err = m.Verify(token)
	assert.Error(t, err)
}
