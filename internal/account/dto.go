// AngelaMos | 2026
// dto.go

package account

import (
	"time"
)

type ListParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type LocationResponse struct {
	City    string   `json:"city,omitempty"`
	State   string   `json:"state,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type VideoResponse struct {
	UploadID   string `json:"upload_id,omitempty"`
	AssetID    string `json:"asset_id,omitempty"`
	PlaybackID string `json:"playback_id,omitempty"`
}

// ProfileResponse is the full stored record without the credential hash.
type ProfileResponse struct {
	ID                  string           `json:"id"`
	Email               string           `json:"email"`
	FirstName           string           `json:"first_name"`
	LastName            string           `json:"last_name"`
	Username            string           `json:"username,omitempty"`
	Role                string           `json:"role"`
	RoleCategory        string           `json:"role_category"`
	Status              Status           `json:"status"`
	OnboardingCompleted bool             `json:"onboarding_completed"`
	Headline            string           `json:"headline,omitempty"`
	Bio                 string           `json:"bio,omitempty"`
	Category            string           `json:"category,omitempty"`
	Skills              []string         `json:"skills"`
	Experience          []Experience     `json:"experience"`
	Location            LocationResponse `json:"location"`
	DateOfBirth         string           `json:"date_of_birth,omitempty"`
	Age                 *int             `json:"age,omitempty"`
	Gender              string           `json:"gender,omitempty"`
	ProfileImage        string           `json:"profile_image,omitempty"`
	Video               VideoResponse    `json:"video"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

const (
	ViewOnboarding = "onboarding"
	ViewPending    = "pending"
	ViewAdmin      = "admin"
	ViewTalent     = "talent"
)

type DashboardResponse struct {
	View    string       `json:"view"`
	Account SessionBrief `json:"account"`
}

type SessionBrief struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	RoleCategory        string `json:"role_category"`
	Status              string `json:"status"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	ProfileImage        string `json:"profile_image,omitempty"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ToProfileResponse(a *Account) ProfileResponse {
	resp := ProfileResponse{
		ID:                  a.ID,
		Email:               a.Email,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		Username:            deref(a.Username),
		Role:                a.Role,
		RoleCategory:        a.RoleCategory,
		Status:              a.Status,
		OnboardingCompleted: a.OnboardingCompleted,
		Headline:            deref(a.Headline),
		Bio:                 deref(a.Bio),
		Category:            deref(a.Category),
		Skills:              []string(a.Skills),
		Experience:          []Experience(a.Experience),
		Location: LocationResponse{
			City:    deref(a.LocationCity),
			State:   deref(a.LocationState),
			Country: deref(a.LocationCountry),
			Lat:     a.LocationLat,
			Lng:     a.LocationLng,
		},
		Age:          a.Age,
		Gender:       deref(a.Gender),
		ProfileImage: deref(a.ProfileImage),
		Video: VideoResponse{
			UploadID:   deref(a.MuxUploadID),
			AssetID:    deref(a.MuxAssetID),
			PlaybackID: deref(a.MuxPlaybackID),
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.DateOfBirth != nil {
		resp.DateOfBirth = a.DateOfBirth.Format(time.DateOnly)
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if resp.Experience == nil {
		resp.Experience = []Experience{}
	}
	return resp
}

func ToProfileResponseList(accounts []Account) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, ToProfileResponse(&accounts[i]))
	}
	return out
}
