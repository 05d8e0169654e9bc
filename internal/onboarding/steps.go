// AngelaMos | 2026
// steps.go

package onboarding

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
)

const (
	dateLayout = "2006-01-02"
	minAge     = 13
	maxAge     = 120
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_.]+$`)
	yearPattern     = regexp.MustCompile(`^[0-9]{4}$`)
)

type Identity struct {
	Username      string `json:"username"       validate:"required,min=3,max=30,username"`
	DateOfBirth   string `json:"date_of_birth"  validate:"required,datetime=2006-01-02"`
	Gender        string `json:"gender"         validate:"required,oneof=male female non-binary other"`
	AvatarPending bool   `json:"avatar_pending"`
}

type Narrative struct {
	Headline string `json:"headline" validate:"required,max=120"`
	Bio      string `json:"bio"      validate:"omitempty,max=2000"`
}

type Specialty struct {
	Role string   `json:"role"`
	Tags []string `json:"tags"`
}

type Location struct {
	City       string               `json:"city"       validate:"required,max=120"`
	State      string               `json:"state"      validate:"omitempty,max=120"`
	Country    string               `json:"country"    validate:"required,max=120"`
	Lat        *float64             `json:"lat"        validate:"omitempty,latitude"`
	Lng        *float64             `json:"lng"        validate:"omitempty,longitude"`
	Experience []account.Experience `json:"experience"`
}

// Form is everything the four steps collect.
type Form struct {
	Identity  Identity  `json:"identity"`
	Narrative Narrative `json:"narrative"`
	Specialty Specialty `json:"specialty"`
	Location  Location  `json:"location"`
}

func newStepValidator() *validator.Validate {
	v := core.NewValidator()
	//nolint:errcheck // tag name is a constant
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

var stepValidator = newStepValidator()

func (f *Identity) normalize() {
	f.Username = strings.ToLower(strings.TrimSpace(f.Username))
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Gender = strings.ToLower(strings.TrimSpace(f.Gender))
}

func (f *Narrative) normalize() {
	f.Headline = strings.TrimSpace(f.Headline)
	f.Bio = strings.TrimSpace(f.Bio)
}

func (f *Location) normalize() {
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Country = strings.TrimSpace(f.Country)

	kept := f.Experience[:0]
	for _, e := range f.Experience {
		e.Project = strings.TrimSpace(e.Project)
		e.Role = strings.TrimSpace(e.Role)
		e.Year = strings.TrimSpace(e.Year)
		if e.Project == "" && e.Role == "" && e.Year == "" {
			continue
		}
		kept = append(kept, e)
	}
	f.Experience = kept
}

func validateIdentity(f Identity, now time.Time) map[string]string {
	errs := structErrors(f)

	if _, bad := errs["date_of_birth"]; !bad {
		dob, _ := time.Parse(dateLayout, f.DateOfBirth)
		switch age := AgeOn(dob, now); {
		case !dob.Before(now):
			errs = withError(errs, "date_of_birth", "must be in the past")
		case age < minAge || age > maxAge:
			errs = withError(errs, "date_of_birth",
				fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
		}
	}

	return errs
}

func validateNarrative(f Narrative) map[string]string {
	return structErrors(f)
}

func validateSpecialty(f Specialty) map[string]string {
	var errs map[string]string

	skills, ok := SkillsFor(f.Role)
	if !ok {
		return withError(errs, "role", "must be one of the listed roles")
	}

	if len(f.Tags) == 0 {
		errs = withError(errs, "tags", "select at least one specialty")
	}
	for _, tag := range f.Tags {
		if !slices.Contains(skills, tag) {
			errs = withError(errs, "tags", fmt.Sprintf("%q is not a %s specialty", tag, f.Role))
			break
		}
	}

	return errs
}

func validateLocation(f Location) map[string]string {
	errs := structErrors(f)

	for i, e := range f.Experience {
		prefix := fmt.Sprintf("experience.%d.", i)
		if e.Project == "" {
			errs = withError(errs, prefix+"project", "is required")
		}
		if e.Role == "" {
			errs = withError(errs, prefix+"role", "is required")
		}
		if e.Year != "" && !yearPattern.MatchString(e.Year) {
			errs = withError(errs, prefix+"year", "must be a four digit year")
		}
	}

	return errs
}

func structErrors(v any) map[string]string {
	err := stepValidator.Struct(v)
	if err == nil {
		return map[string]string{}
	}
	details := core.ValidationDetails(err)
	if details == nil {
		return map[string]string{"form": "is invalid"}
	}
	return details
}

func withError(errs map[string]string, field, msg string) map[string]string {
	if errs == nil {
		errs = map[string]string{}
	}
	errs[field] = msg
	return errs
}

// AgeOn returns the age in whole years of someone born on dob at now.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
