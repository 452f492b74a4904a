package user

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is a cashier allowed to operate the till.
type User struct {
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

var ErrUserNotFound = errors.New("user not found")

// ParseRoster reads "name:bcrypt-hash" entries. Names are case-insensitive
// and must be unique.
func ParseRoster(entries []string) ([]User, error) {
	users := make([]User, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		name, hash, ok := strings.Cut(e, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("invalid cashier entry %q: want name:hash", e)
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("cashier %s: %w", name, err)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate cashier %s", name)
		}
		seen[key] = true
		users = append(users, User{Name: name, PasswordHash: hash})
	}
	return users, nil
}

// HashPassword returns the bcrypt hash stored in the roster for password.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
