// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/core"
)

type contextKey string

const (
	SessionKey contextKey = "session"
)

const (
	CategoryTalent       = "talent"
	CategoryProfessional = "industry_professional"
	CategoryAdmin        = "admin"

	StatusApproved = "approved"
)

// Session is the authenticated caller for one request. It starts as the
// token's cached claims and may be refreshed from the store by RefreshStatus.
type Session struct {
	AccountID           string
	Email               string
	Role                string
	RoleCategory        string
	Status              string
	OnboardingCompleted bool
	ProfileImage        string
	TokenID             string
	ExpiresAt           time.Time
	Refreshed           bool
}

func (s *Session) IsApproved() bool {
	return s.Status == StatusApproved
}

func (s *Session) IsAdmin() bool {
	return s.RoleCategory == CategoryAdmin
}

type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*Session, error)
}

// Authenticator reads the session token from the cookie, falling back to a
// bearer header for non-browser clients.
func Authenticator(
	verifier SessionVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing session token"),
				)
				return
			}

			session, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func OptionalAuth(
	verifier SessionVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r, cookieName); token != "" {
				session, err := verifier.VerifySession(r.Context(), token)
				if err == nil {
					r = r.WithContext(WithSession(r.Context(), session))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireRoleCategory(categories ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := allowed[session.RoleCategory]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoleCategory(CategoryAdmin)(next)
}

// RequireApproved must run after RefreshStatus so a stale pending token
// does not lock out an account that was approved since login.
func RequireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		if session == nil {
			core.JSONError(w, core.UnauthorizedError("authentication required"))
			return
		}

		if !session.IsApproved() {
			core.JSONError(w, core.NotApprovedError())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func GetSession(ctx context.Context) *Session {
	if s, ok := ctx.Value(SessionKey).(*Session); ok {
		return s
	}
	return nil
}

func GetAccountID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.AccountID
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	s := GetSession(ctx)
	return s != nil && s.IsAdmin()
}
