// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// AccountInfo is the slice of an account the auth flow needs. The
// account package provides it so auth never touches the users table.
type AccountInfo struct {
	ID                  string
	Email               string
	FirstName           string
	LastName            string
	PasswordHash        string
	Role                string
	RoleCategory        string
	Status              string
	OnboardingCompleted bool
	ProfileImage        string
	CreatedAt           time.Time
}

func (a *AccountInfo) claims() SessionClaims {
	return SessionClaims{
		AccountID:           a.ID,
		Email:               a.Email,
		Role:                a.Role,
		RoleCategory:        a.RoleCategory,
		Status:              a.Status,
		OnboardingCompleted: a.OnboardingCompleted,
	}
}

type NewAccount struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}
