// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration refused")
)

type AccountProvider interface {
	LookupCredentials(ctx context.Context, email string) (*AccountInfo, error)
	CreateAccount(ctx context.Context, in NewAccount) (*AccountInfo, error)
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
}

type Service struct {
	tokens      *TokenManager
	accounts    AccountProvider
	revocations RevocationStore
	logger      *slog.Logger
}

func NewService(
	tokens *TokenManager,
	accounts AccountProvider,
	revocations RevocationStore,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tokens:      tokens,
		accounts:    accounts,
		revocations: revocations,
		logger:      logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResult, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.CreateAccount(ctx, NewAccount{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) || errors.Is(err, core.ErrInvalidInput) {
			return nil, fmt.Errorf("register: %w: %w", ErrRegistrationFailed, err)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issue(account)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResult, error) {
	account, err := s.accounts.LookupCredentials(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&account.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.accounts.UpdatePassword(ctx, account.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed", "account_id", account.ID, "error", err)
		}
	}

	return s.issue(account)
}

// Logout revokes the token id for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, session *middleware.Session) error {
	if session == nil || session.TokenID == "" {
		return nil
	}

	if err := s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// VerifySession validates the token and consults the revocation list. A
// revocation lookup failure rejects the token.
func (s *Service) VerifySession(
	ctx context.Context,
	token string,
) (*middleware.Session, error) {
	session, err := s.tokens.VerifySession(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
	if err != nil {
		s.logger.Warn("revocation check failed",
			"account_id", session.AccountID,
			"error", err,
		)
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenInvalid)
	}
	if revoked {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}

	return session, nil
}

func (s *Service) issue(account *AccountInfo) (*AuthResult, error) {
	token, err := s.tokens.IssueSession(account.claims())
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &AuthResult{
		Response: AuthResponse{
			User:      toAccountResponse(account),
			ExpiresAt: token.ExpiresAt,
		},
		Token: token,
	}, nil
}

var _ middleware.SessionVerifier = (*Service)(nil)
