// AngelaMos | 2026
// session.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// LiveAccount is the subset of the stored account that may be fresher than
// the session token.
type LiveAccount struct {
	Status              string
	Role                string
	RoleCategory        string
	OnboardingCompleted bool
	ProfileImage        string
}

type LiveAccountSource interface {
	LiveAccount(ctx context.Context, accountID string) (*LiveAccount, error)
}

// RefreshStatus re-reads the account for sessions whose cached status is not
// approved and applies the stored values for the rest of the request. The
// token is not reissued. On a store error the cached claims are kept.
func RefreshStatus(
	source LiveAccountSource,
	timeout time.Duration,
	logger *slog.Logger,
) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil || session.IsApproved() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			live, err := source.LiveAccount(ctx, session.AccountID)
			if err != nil {
				logger.Warn("session status refresh failed, using cached claims",
					"account_id", session.AccountID,
					"cached_status", session.Status,
					"request_id", GetRequestID(r.Context()),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			refreshed := *session
			refreshed.Status = live.Status
			refreshed.Role = live.Role
			refreshed.RoleCategory = live.RoleCategory
			refreshed.OnboardingCompleted = live.OnboardingCompleted
			refreshed.ProfileImage = live.ProfileImage
			refreshed.Refreshed = true

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), &refreshed)))
		})
	}
}
