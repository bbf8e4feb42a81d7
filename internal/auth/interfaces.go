package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap-api/internal/user"
)

// TokenService mints and validates session tokens.
type TokenService interface {
	IssueToken(userID uuid.UUID, email string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserDirectory is the slice of the user repository the auth layer needs:
// resolving token emails on protected requests and creating users on first
// login.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetOrCreate(ctx context.Context, email, displayNameHint string) (*user.User, error)
}
