// AngelaMos | 2026
// entity.go

package account

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryTalent       = "talent"
	CategoryProfessional = "industry_professional"
	CategoryAdmin        = "admin"

	RoleUnknown   = "unknown"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

var professionalRoles = map[string]struct{}{
	"casting_director":   {},
	"production_manager": {},
	"art_director":       {},
	"costume_designer":   {},
	"makeup_artist":      {},
	"sound_engineer":     {},
}

// CategoryForRole derives the coarse category used for routing and
// authorization from a profession tag.
func CategoryForRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if IsAdminRole(role) {
		return CategoryAdmin
	}
	if _, ok := professionalRoles[role]; ok {
		return CategoryProfessional
	}
	return CategoryTalent
}

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleModerator
}

type Account struct {
	ID                  string         `db:"id"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	FirstName           string         `db:"first_name"`
	LastName            string         `db:"last_name"`
	Username            *string        `db:"username"`
	Role                string         `db:"role"`
	RoleCategory        string         `db:"role_category"`
	Status              Status         `db:"status"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	Headline            *string        `db:"headline"`
	Bio                 *string        `db:"bio"`
	Category            *string        `db:"category"`
	Skills              StringList     `db:"skills"`
	Experience          ExperienceList `db:"experience"`
	LocationCity        *string        `db:"location_city"`
	LocationState       *string        `db:"location_state"`
	LocationCountry     *string        `db:"location_country"`
	LocationLat         *float64       `db:"location_lat"`
	LocationLng         *float64       `db:"location_lng"`
	DateOfBirth         *time.Time     `db:"date_of_birth"`
	Age                 *int           `db:"age"`
	Gender              *string        `db:"gender"`
	ProfileImage        *string        `db:"profile_image"`
	MuxUploadID         *string        `db:"mux_upload_id"`
	MuxAssetID          *string        `db:"mux_asset_id"`
	MuxPlaybackID       *string        `db:"mux_playback_id"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (a *Account) IsAdmin() bool {
	return a.RoleCategory == CategoryAdmin
}

func (a *Account) CurrentUsername() string {
	if a.Username == nil {
		return ""
	}
	return *a.Username
}

// Submission is everything the onboarding commit writes in one statement.
type Submission struct {
	Username        string
	Headline        string
	Bio             string
	Role            string
	Category        string
	Skills          []string
	Experience      []Experience
	LocationCity    string
	LocationState   string
	LocationCountry string
	LocationLat     *float64
	LocationLng     *float64
	DateOfBirth     time.Time
	Age             int
	Gender          string
	ProfileImage    string
	VideoUploadID   string
}

type Experience struct {
	Project string `json:"project"`
	Role    string `json:"role"`
	Year    string `json:"year,omitempty"`
}

// StringList is a JSONB text array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, (*[]string)(l))
}

type ExperienceList []Experience

func (l ExperienceList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Experience(l))
	if err != nil {
		return nil, fmt.Errorf("encode experience: %w", err)
	}
	return string(b), nil
}

func (l *ExperienceList) Scan(src any) error {
	return scanJSON(src, (*[]Experience)(l))
}

func scanJSON(src any, dest any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported json column type")
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
