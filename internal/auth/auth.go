// Package auth provides password hashing and credential verification for
// simulated platform logins.
package auth

import (
	"context"
	"errors"
	"fmt"

	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords so
// callers cannot probe which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate verifies the email/password pair against the stored hash and
// returns the identity on success.
func Authenticate(ctx context.Context, s store.LedgerStore, email, password string) (*models.Identity, error) {
	identity, err := s.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		zap.L().Debug("Password mismatch", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return identity, nil
}
