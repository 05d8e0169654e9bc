// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,password"`
	Role      string `json:"role"       validate:"omitempty,max=64"`
}

type AccountResponse struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Role                string    `json:"role"`
	RoleCategory        string    `json:"role_category"`
	Status              string    `json:"status"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	ProfileImage        string    `json:"profile_image,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

type AuthResponse struct {
	User      AccountResponse `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// AuthResult is returned by the service; the handler puts Token in the
// cookie and only the response part in the body.
type AuthResult struct {
	Response AuthResponse
	Token    *IssuedToken
}

type SessionUser struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	RoleCategory        string    `json:"role_category"`
	Status              string    `json:"status"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	ExpiresAt           time.Time `json:"expires_at"`
}

type CheckResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
}

func toAccountResponse(a *AccountInfo) AccountResponse {
	return AccountResponse{
		ID:                  a.ID,
		Email:               a.Email,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		Role:                a.Role,
		RoleCategory:        a.RoleCategory,
		Status:              a.Status,
		OnboardingCompleted: a.OnboardingCompleted,
		ProfileImage:        a.ProfileImage,
		CreatedAt:           a.CreatedAt,
	}
}

func toSessionUser(s *middleware.Session) *SessionUser {
	return &SessionUser{
		ID:                  s.AccountID,
		Email:               s.Email,
		Role:                s.Role,
		RoleCategory:        s.RoleCategory,
		Status:              s.Status,
		OnboardingCompleted: s.OnboardingCompleted,
		ExpiresAt:           s.ExpiresAt,
	}
}
