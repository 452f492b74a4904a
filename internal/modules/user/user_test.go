package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseRoster(t *testing.T) {
	hash, err := HashPassword("rahasia", bcrypt.MinCost)
	require.NoError(t, err)

	users, err := ParseRoster([]string{"Admin:" + hash, " ", "Sari:" + hash})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Admin", users[0].Name)

	tests := []struct {
		name    string
		entries []string
	}{
		{"missing hash", []string{"Admin"}},
		{"empty name", []string{":" + hash}},
		{"not bcrypt", []string{"Admin:plain"}},
		{"duplicate", []string{"Admin:" + hash, "admin:" + hash}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoster(tt.entries)
			assert.Error(t, err)
		})
	}
}

func TestServiceGetUser(t *testing.T) {
	svc := NewService([]User{{Name: "Admin", PasswordHash: "x"}})
	assert.Equal(t, 1, svc.Len())

	u, err := svc.GetUser(context.Background(), " admin ")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Name)

	_, err = svc.GetUser(context.Background(), "budi")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
