package auth

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-api/internal/identity"
	"github.com/skillswap/skillswap-api/internal/logging"
	"github.com/skillswap/skillswap-api/internal/user"
)

// Service handles the login flow: verify the external assertion, ensure a
// user record exists, mint a session token.
type Service struct {
	verifier identity.Verifier
	users    UserDirectory
	tokens   TokenService
	logger   *logging.Logger
}

func NewService(verifier identity.Verifier, users UserDirectory, tokens TokenService, logger *logging.Logger) *Service {
	return &Service{
		verifier: verifier,
		users:    users,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *user.User
}

// Login verifies an identity assertion against the external authority,
// lazily creates the user record, and issues a session token. The user
// upsert commits before the token is returned.
func (s *Service) Login(ctx context.Context, assertion string) (*LoginResult, error) {
	verified, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		// Log the cause for operators; the caller only sees that the
		// assertion was rejected.
		s.logger.Warn("identity assertion rejected", "error", err.Error())
		return nil, identity.ErrInvalidAssertion
	}

	u, err := s.users.GetOrCreate(ctx, verified.Email, verified.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user record: %w", err)
	}

	token, err := s.tokens.IssueToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &LoginResult{Token: token, User: u}, nil
}
