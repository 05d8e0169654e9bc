// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/talentgrid/internal/audit"
	"github.com/carterperez-dev/talentgrid/internal/auth"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

var ErrAdminProtected = errors.New("admin accounts cannot be deleted")

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	audit   *audit.Recorder
}

func NewService(
	repo Repository,
	m *metrics.Metrics,
	recorder *audit.Recorder,
) *Service {
	return &Service{repo: repo, metrics: m, audit: recorder}
}

// CreateAccount registers a new non-admin account in the pending state.
func (s *Service) CreateAccount(
	ctx context.Context,
	in auth.NewAccount,
) (*auth.AccountInfo, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = RoleUnknown
	}
	if IsAdminRole(role) {
		return nil, fmt.Errorf("create account: role %q: %w", role, core.ErrInvalidInput)
	}

	a := &Account{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: in.PasswordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		RoleCategory: CategoryForRole(role),
		Status:       StatusPending,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return toAccountInfo(a), nil
}

// CreateModerator bootstraps an approved admin account.
func (s *Service) CreateModerator(
	ctx context.Context,
	email, passwordHash, firstName, lastName string,
) (*Account, error) {
	a := &Account{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         RoleModerator,
		RoleCategory: CategoryAdmin,
		Status:       StatusApproved,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) LookupCredentials(
	ctx context.Context,
	email string,
) (*auth.AccountInfo, error) {
	a, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return toAccountInfo(a), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	accountID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, accountID, passwordHash)
}

func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// LiveAccount serves the read-path status refresh.
func (s *Service) LiveAccount(
	ctx context.Context,
	accountID string,
) (*middleware.LiveAccount, error) {
	a, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &middleware.LiveAccount{
		Status:              string(a.Status),
		Role:                a.Role,
		RoleCategory:        a.RoleCategory,
		OnboardingCompleted: a.OnboardingCompleted,
		ProfileImage:        deref(a.ProfileImage),
	}, nil
}

// UsernameAvailable reports whether username is free for accountID. The
// caller's own row never counts as a clash.
func (s *Service) UsernameAvailable(
	ctx context.Context,
	username, accountID string,
) (bool, error) {
	taken, err := s.repo.UsernameTaken(ctx, strings.ToLower(username), accountID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*Account, error) {
	return s.apply(ctx, id, EventApprove, audit.ActionApprove)
}

func (s *Service) Reject(ctx context.Context, id string) (*Account, error) {
	return s.apply(ctx, id, EventReject, audit.ActionReject)
}

func (s *Service) Ban(ctx context.Context, id string) (*Account, error) {
	return s.apply(ctx, id, EventBan, audit.ActionBan)
}

func (s *Service) apply(
	ctx context.Context,
	id string,
	event Event,
	action string,
) (*Account, error) {
	to, ok := Target(event)
	if !ok {
		return nil, fmt.Errorf("apply %s: %w", event, ErrInvalidTransition)
	}

	a, err := s.repo.Transition(ctx, id, to, Sources(event))
	s.metrics.StatusTransition(string(event), err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     action,
		TargetType: "account",
		TargetID:   id,
		Fields:     map[string]any{"status": string(a.Status)},
	})

	return a, nil
}

// Submit writes a completed onboarding and returns the account to pending.
// Banned accounts are refused by the guard.
func (s *Service) Submit(
	ctx context.Context,
	id string,
	sub Submission,
) (*Account, error) {
	a, err := s.repo.Submit(ctx, id, sub, Sources(EventResubmit))
	s.metrics.StatusTransition(string(EventResubmit), err)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CanSubmit fails fast for accounts the resubmit guard would refuse.
func (s *Service) CanSubmit(ctx context.Context, id string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := Next(a.Status, EventResubmit); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.IsAdmin() {
		return fmt.Errorf("delete account: %w: %w", ErrAdminProtected, core.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     audit.ActionDelete,
		TargetType: "account",
		TargetID:   id,
		Fields:     map[string]any{"email": a.Email},
	})
	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Account, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Counts(ctx context.Context) (*Counts, error) {
	return s.repo.Counts(ctx)
}

func (s *Service) VideoRef(ctx context.Context, id string) (*media.VideoRef, error) {
	return s.repo.VideoRef(ctx, id)
}

func (s *Service) AttachPlayback(
	ctx context.Context,
	id, uploadID, assetID, playbackID string,
) (bool, error) {
	return s.repo.AttachPlayback(ctx, id, uploadID, assetID, playbackID)
}

// DashboardView picks the landing view for a session whose status has
// already been refreshed.
func DashboardView(s *middleware.Session) string {
	switch {
	case !s.IsApproved() && !s.OnboardingCompleted:
		return ViewOnboarding
	case !s.IsApproved():
		return ViewPending
	case s.IsAdmin():
		return ViewAdmin
	default:
		return ViewTalent
	}
}

func toAccountInfo(a *Account) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:                  a.ID,
		Email:               a.Email,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		PasswordHash:        a.PasswordHash,
		Role:                a.Role,
		RoleCategory:        a.RoleCategory,
		Status:              string(a.Status),
		OnboardingCompleted: a.OnboardingCompleted,
		ProfileImage:        deref(a.ProfileImage),
		CreatedAt:           a.CreatedAt,
	}
}

var (
	_ auth.AccountProvider         = (*Service)(nil)
	_ middleware.LiveAccountSource = (*Service)(nil)
)
