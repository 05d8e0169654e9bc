// AngelaMos | 2026
// wizard_test.go

package onboarding

import (
	"testing"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/account"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func mustContinue(t *testing.T, w *Wizard) {
	t.Helper()
	if !w.Continue(testNow) {
		t.Fatalf("continue on step %d failed: %v", w.Step, w.Errors)
	}
}

func validIdentity() Identity {
	return Identity{Username: "Ada.Lane", DateOfBirth: "1990-05-01", Gender: "female"}
}

func validLocation() Location {
	return Location{
		City:    "Lisbon",
		Country: "Portugal",
		Experience: []account.Experience{
			{Project: "Tides", Role: "Lead", Year: "2024"},
		},
	}
}

func readyWizard(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard()
	w.SetIdentity(validIdentity())
	mustContinue(t, w)
	w.SetNarrative(Narrative{Headline: "Screen actor"})
	mustContinue(t, w)
	w.SetSpecialty(Specialty{Role: "Voice Artist", Tags: []string{"Narration"}})
	mustContinue(t, w)
	w.SetLocation(validLocation())
	mustContinue(t, w)
	mustContinue(t, w)
	if !w.Ready() {
		t.Fatalf("wizard not ready: step=%d phase=%s", w.Step, w.Phase)
	}
	return w
}

func TestContinueStaysOnInvalidStep(t *testing.T) {
	w := NewWizard()

	if w.Continue(testNow) {
		t.Fatal("empty identity must not validate")
	}
	if w.Step != StepIdentity {
		t.Fatalf("step = %d", w.Step)
	}
	for _, field := range []string{"username", "date_of_birth", "gender"} {
		if _, ok := w.Errors[field]; !ok {
			t.Fatalf("missing error for %s: %v", field, w.Errors)
		}
	}
}

func TestIdentityNormalizesUsername(t *testing.T) {
	w := NewWizard()
	w.SetIdentity(validIdentity())
	if w.Form.Identity.Username != "ada.lane" {
		t.Fatalf("username = %q", w.Form.Identity.Username)
	}

	w.SetIdentity(Identity{Username: "ada lane!", DateOfBirth: "1990-05-01", Gender: "female"})
	if w.Continue(testNow) {
		t.Fatal("username with spaces accepted")
	}
	if _, ok := w.Errors["username"]; !ok {
		t.Fatalf("errors = %v", w.Errors)
	}
}

func TestIdentityAgeBounds(t *testing.T) {
	tests := []struct {
		dob string
		ok  bool
	}{
		{"2013-06-01", true},
		{"2013-06-02", false},
		{"2027-01-01", false},
		{"1900-01-01", false},
		{"01/05/1990", false},
	}

	for _, tt := range tests {
		errs := validateIdentity(Identity{Username: "ada", DateOfBirth: tt.dob, Gender: "other"}, testNow)
		_, bad := errs["date_of_birth"]
		if bad == tt.ok {
			t.Fatalf("dob %s: errors=%v, want ok=%v", tt.dob, errs, tt.ok)
		}
	}
}

func TestLastStepInjectsVideoSubstep(t *testing.T) {
	w := NewWizard()
	w.SetIdentity(validIdentity())
	mustContinue(t, w)
	w.SetNarrative(Narrative{Headline: "Screen actor"})
	mustContinue(t, w)
	w.SetSpecialty(Specialty{Role: "Actor", Tags: []string{"Drama"}})
	mustContinue(t, w)
	w.SetLocation(validLocation())

	mustContinue(t, w)
	if w.Step != StepLocation || w.Phase != PhaseSubstep || w.Ready() {
		t.Fatalf("first continue: step=%d phase=%s", w.Step, w.Phase)
	}

	mustContinue(t, w)
	if !w.Ready() {
		t.Fatalf("second continue: phase=%s", w.Phase)
	}
}

func TestBackKeepsSubstepShown(t *testing.T) {
	w := readyWizard(t)

	w.Back()
	if w.Step != StepSpecialty {
		t.Fatalf("step = %d", w.Step)
	}
	mustContinue(t, w)
	if w.Phase != PhaseAwaiting {
		t.Fatalf("phase = %s", w.Phase)
	}

	mustContinue(t, w)
	if !w.Ready() {
		t.Fatalf("returning to the last step should need one continue, phase=%s", w.Phase)
	}
}

func TestBackStopsAtFirstStep(t *testing.T) {
	w := NewWizard()
	w.Back()
	w.Back()
	if w.Step != StepIdentity {
		t.Fatalf("step = %d", w.Step)
	}
}

func TestEditAfterReadyNeedsContinue(t *testing.T) {
	w := readyWizard(t)

	loc := validLocation()
	loc.City = "Porto"
	w.SetLocation(loc)
	if w.Ready() {
		t.Fatal("wizard still ready after an edit")
	}

	mustContinue(t, w)
	if !w.Ready() {
		t.Fatalf("phase = %s", w.Phase)
	}
}

func TestSpecialtyRoleChangePurgesTags(t *testing.T) {
	w := NewWizard()
	w.SetSpecialty(Specialty{Role: "Model", Tags: []string{"Runway", "Fitness"}})

	w.SetSpecialty(Specialty{Role: "Voice Artist", Tags: []string{"Runway", "Fitness"}})
	if len(w.Form.Specialty.Tags) != 0 {
		t.Fatalf("tags survived the role change: %v", w.Form.Specialty.Tags)
	}

	w.Step = StepSpecialty
	if w.Continue(testNow) {
		t.Fatal("specialty with no tags accepted")
	}

	w.SetSpecialty(Specialty{Role: "Voice Artist", Tags: []string{"Narration", "Narration"}})
	if got := w.Form.Specialty.Tags; len(got) != 1 || got[0] != "Narration" {
		t.Fatalf("tags = %v", got)
	}
}

func TestSpecialtyRoleChangeKeepsSharedSelection(t *testing.T) {
	w := NewWizard()
	w.SetSpecialty(Specialty{Role: "Model", Tags: []string{"Commercial"}})
	w.SetSpecialty(Specialty{Role: "Director", Tags: []string{"Commercial", "Runway"}})

	if got := w.Form.Specialty.Tags; len(got) != 1 || got[0] != "Commercial" {
		t.Fatalf("tags = %v", got)
	}

	w.Step = StepSpecialty
	if !w.Continue(testNow) {
		t.Fatalf("continue failed: %v", w.Errors)
	}
}

func TestSpecialtyRejectsForeignTags(t *testing.T) {
	errs := validateSpecialty(Specialty{Role: "Dancer", Tags: []string{"Opera"}})
	if _, ok := errs["tags"]; !ok {
		t.Fatalf("errors = %v", errs)
	}

	errs = validateSpecialty(Specialty{Role: "Juggler", Tags: []string{"Balls"}})
	if _, ok := errs["role"]; !ok {
		t.Fatalf("errors = %v", errs)
	}
}

func TestLocationExperienceRules(t *testing.T) {
	loc := Location{
		City:    "Lisbon",
		Country: "Portugal",
		Experience: []account.Experience{
			{Project: "", Role: "", Year: ""},
			{Project: "Tides", Role: "", Year: "24"},
		},
	}
	loc.normalize()

	if len(loc.Experience) != 1 {
		t.Fatalf("blank entry kept: %v", loc.Experience)
	}

	errs := validateLocation(loc)
	for _, field := range []string{"experience.0.role", "experience.0.year"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing %s in %v", field, errs)
		}
	}
	if _, ok := errs["experience.0.project"]; ok {
		t.Fatalf("project flagged although present: %v", errs)
	}
}

func TestLocationRequiresCityAndCountry(t *testing.T) {
	errs := validateLocation(Location{State: "Lisbon"})
	for _, field := range []string{"city", "country"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing %s in %v", field, errs)
		}
	}
}

func TestRoleTag(t *testing.T) {
	if got := RoleTag("Stunt Performer"); got != "stunt_performer" {
		t.Fatalf("RoleTag = %s", got)
	}
	if got := RoleLabel("voice_artist"); got != "Voice Artist" {
		t.Fatalf("RoleLabel = %s", got)
	}
	if got := RoleLabel("casting_director"); got != "" {
		t.Fatalf("RoleLabel for unlisted tag = %q", got)
	}
}
