// AngelaMos | 2026
// wizard.go

package onboarding

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

type Step int

const (
	StepIdentity Step = iota + 1
	StepNarrative
	StepSpecialty
	StepLocation
)

// Phase only has meaning on StepLocation, where the video sub-step is
// injected between the first Continue and commit.
type Phase string

const (
	PhaseAwaiting Phase = "awaiting_first_continue"
	PhaseSubstep  Phase = "showing_video_substep"
	PhaseReady    Phase = "ready_to_commit"
)

var (
	ErrNotReady    = errors.New("onboarding is not ready to commit")
	ErrInvalidStep = errors.New("invalid onboarding step")
)

// Wizard is the onboarding state for one account. All methods are pure;
// persistence and the username store check live in Service.
type Wizard struct {
	Step         Step              `json:"step"`
	Phase        Phase             `json:"phase"`
	SubstepShown bool              `json:"substep_shown"`
	Form         Form              `json:"form"`
	Errors       map[string]string `json:"errors,omitempty"`
}

func NewWizard() *Wizard {
	return &Wizard{Step: StepIdentity, Phase: PhaseAwaiting}
}

func (w *Wizard) Ready() bool {
	return w.Step == StepLocation && w.Phase == PhaseReady
}

func (w *Wizard) SetIdentity(f Identity) {
	f.normalize()
	w.Form.Identity = f
	w.edited()
}

func (w *Wizard) SetNarrative(f Narrative) {
	f.normalize()
	w.Form.Narrative = f
	w.edited()
}

// SetSpecialty stores the role and tags. Switching to a different role
// discards the previous selection: only submitted tags offered by the new
// role are kept.
func (w *Wizard) SetSpecialty(f Specialty) {
	tags := f.Tags
	if prev := w.Form.Specialty.Role; prev != "" && f.Role != prev {
		skills, _ := SkillsFor(f.Role)
		tags = slices.DeleteFunc(slices.Clone(tags), func(t string) bool {
			return !slices.Contains(skills, t)
		})
	}
	w.Form.Specialty = Specialty{Role: f.Role, Tags: dedupe(tags)}
	w.edited()
}

func (w *Wizard) SetLocation(f Location) {
	f.normalize()
	w.Form.Location = f
	w.edited()
}

// edited clears errors and, on the last step, asks for a fresh Continue
// before commit. The sub-step already shown stays shown.
func (w *Wizard) edited() {
	w.Errors = nil
	if w.Step == StepLocation && w.Phase == PhaseReady {
		w.Phase = PhaseAwaiting
	}
}

// Continue validates the current step. On failure the wizard stays put and
// Errors lists the offending fields. On the last step the first successful
// Continue reveals the video sub-step instead of advancing.
func (w *Wizard) Continue(now time.Time) bool {
	errs := w.validate(now)
	if len(errs) > 0 {
		w.Errors = errs
		return false
	}
	w.Errors = nil

	switch w.Step {
	case StepIdentity, StepNarrative, StepSpecialty:
		w.Step++
		if w.Step == StepLocation {
			w.Phase = PhaseAwaiting
		}
	case StepLocation:
		if !w.SubstepShown {
			w.SubstepShown = true
			w.Phase = PhaseSubstep
			return true
		}
		w.Phase = PhaseReady
	}
	return true
}

// Back moves one step toward the start. Step one is the floor.
func (w *Wizard) Back() {
	w.Errors = nil
	if w.Step <= StepIdentity {
		w.Step = StepIdentity
		return
	}
	w.Step--
	w.Phase = PhaseAwaiting
}

// Reject records errors found outside the pure step checks, such as a
// username clash, without moving.
func (w *Wizard) Reject(errs map[string]string) {
	w.Errors = errs
}

func (w *Wizard) validate(now time.Time) map[string]string {
	switch w.Step {
	case StepIdentity:
		return validateIdentity(w.Form.Identity, now)
	case StepNarrative:
		return validateNarrative(w.Form.Narrative)
	case StepSpecialty:
		return validateSpecialty(w.Form.Specialty)
	case StepLocation:
		return validateLocation(w.Form.Location)
	default:
		return map[string]string{"step": "is invalid"}
	}
}

// ValidateAll re-checks every step, as the commit does before uploading.
func (w *Wizard) ValidateAll(now time.Time) error {
	for _, errs := range []map[string]string{
		validateIdentity(w.Form.Identity, now),
		validateNarrative(w.Form.Narrative),
		validateSpecialty(w.Form.Specialty),
		validateLocation(w.Form.Location),
	} {
		if len(errs) > 0 {
			w.Errors = errs
			return fmt.Errorf("validate onboarding: %w", ErrInvalidStep)
		}
	}
	return nil
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
