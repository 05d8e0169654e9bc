// AngelaMos | 2026
// service.go

package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
)

const usernameTakenMessage = "username is already taken"

type AccountReader interface {
	UsernameChecker
	Get(ctx context.Context, id string) (*account.Account, error)
}

// StepUpdate carries the fields of one step. Only the section for the
// wizard's current step is applied.
type StepUpdate struct {
	Identity  *Identity  `json:"identity,omitempty"`
	Narrative *Narrative `json:"narrative,omitempty"`
	Specialty *Specialty `json:"specialty,omitempty"`
	Location  *Location  `json:"location,omitempty"`
}

type Service struct {
	drafts    DraftStore
	gate      *UniquenessGate
	accounts  AccountReader
	committer *Committer
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	drafts DraftStore,
	accounts AccountReader,
	committer *Committer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		drafts:    drafts,
		gate:      NewUniquenessGate(accounts, drafts),
		accounts:  accounts,
		committer: committer,
		logger:    logger,
		now:       time.Now,
	}
}

// State returns the saved wizard, or a fresh one seeded from the stored
// profile so a resubmission starts from what the account already has.
func (s *Service) State(ctx context.Context, accountID string) (*Wizard, error) {
	w, err := s.drafts.Load(ctx, accountID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("seed onboarding: %w", err)
	}
	return seedWizard(a), nil
}

func (s *Service) UpdateStep(
	ctx context.Context,
	accountID string,
	update StepUpdate,
) (*Wizard, error) {
	w, err := s.State(ctx, accountID)
	if err != nil {
		return nil, err
	}

	applied := false
	switch w.Step {
	case StepIdentity:
		if update.Identity != nil {
			w.SetIdentity(*update.Identity)
			applied = true
		}
	case StepNarrative:
		if update.Narrative != nil {
			w.SetNarrative(*update.Narrative)
			applied = true
		}
	case StepSpecialty:
		if update.Specialty != nil {
			w.SetSpecialty(*update.Specialty)
			applied = true
		}
	case StepLocation:
		if update.Location != nil {
			w.SetLocation(*update.Location)
			applied = true
		}
	}
	if !applied {
		return w, fmt.Errorf("update step %d: missing fields: %w", w.Step, ErrInvalidStep)
	}

	return w, s.drafts.Save(ctx, accountID, w)
}

// Continue validates the current step. Leaving step one repeats the
// username check against the store.
func (s *Service) Continue(ctx context.Context, accountID string) (*Wizard, error) {
	w, err := s.State(ctx, accountID)
	if err != nil {
		return nil, err
	}

	leaving := w.Step == StepIdentity
	if w.Continue(s.now()) && leaving {
		ok, err := s.usernameFree(ctx, accountID, w.Form.Identity.Username)
		if err != nil {
			return nil, err
		}
		if !ok {
			w.Step = StepIdentity
			w.Reject(map[string]string{"username": usernameTakenMessage})
		}
	}

	return w, s.drafts.Save(ctx, accountID, w)
}

func (s *Service) Back(ctx context.Context, accountID string) (*Wizard, error) {
	w, err := s.State(ctx, accountID)
	if err != nil {
		return nil, err
	}
	w.Back()
	return w, s.drafts.Save(ctx, accountID, w)
}

func (s *Service) CheckUsername(
	ctx context.Context,
	accountID, username string,
	seq uint64,
) (CheckResult, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return CheckResult{}, err
	}
	return s.gate.Check(ctx, accountID, a.CurrentUsername(), username, seq)
}

// Commit uploads pending media and writes the profile. The returned wizard
// carries field errors when validation failed.
func (s *Service) Commit(
	ctx context.Context,
	accountID string,
	up Uploads,
) (*account.Account, *Wizard, error) {
	w, err := s.State(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	a, err := s.committer.Commit(ctx, accountID, w, up)
	if err != nil {
		if errors.Is(err, ErrInvalidStep) {
			if saveErr := s.drafts.Save(ctx, accountID, w); saveErr != nil {
				s.logger.Warn("save onboarding errors", "account_id", accountID, "error", saveErr)
			}
		}
		return nil, w, err
	}

	if err := s.gate.Forget(ctx, accountID); err != nil {
		s.logger.Warn("reset username checks", "account_id", accountID, "error", err)
	}
	if err := s.drafts.Delete(ctx, accountID); err != nil {
		s.logger.Warn("delete onboarding draft", "account_id", accountID, "error", err)
	}

	s.logger.Info("onboarding committed",
		"account_id", accountID,
		"video_upload_id", deref(a.MuxUploadID),
	)
	return a, nil, nil
}

func (s *Service) usernameFree(ctx context.Context, accountID, username string) (bool, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return false, err
	}
	if username == a.CurrentUsername() {
		return true, nil
	}
	return s.accounts.UsernameAvailable(ctx, username, accountID)
}

func seedWizard(a *account.Account) *Wizard {
	w := NewWizard()
	w.Form.Identity.Username = a.CurrentUsername()
	w.Form.Identity.Gender = deref(a.Gender)
	if a.DateOfBirth != nil {
		w.Form.Identity.DateOfBirth = a.DateOfBirth.Format(dateLayout)
	}

	w.Form.Narrative.Headline = deref(a.Headline)
	w.Form.Narrative.Bio = deref(a.Bio)

	if label := RoleLabel(a.Role); label != "" {
		w.Form.Specialty.Role = label
		w.Form.Specialty.Tags = append([]string(nil), a.Skills...)
	}

	w.Form.Location = Location{
		City:       deref(a.LocationCity),
		State:      deref(a.LocationState),
		Country:    deref(a.LocationCountry),
		Lat:        a.LocationLat,
		Lng:        a.LocationLng,
		Experience: append([]account.Experience(nil), a.Experience...),
	}
	return w
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
