// AngelaMos | 2026
// taxonomy.go

package onboarding

import (
	"slices"
	"strings"
)

type RoleSkills struct {
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

var taxonomy = []RoleSkills{
	{"Actor", []string{"Action", "Comedy", "Drama", "Method Acting", "Stunt Work", "Voice Over", "Musical Theatre", "Screen Acting"}},
	{"Singer", []string{"Soprano", "Jazz", "Pop", "Rock", "Opera", "Songwriting", "Vocal Coaching", "R&B"}},
	{"Dancer", []string{"Contemporary", "Ballet", "Hip Hop", "Tap", "Jazz Dance", "Choreography", "Ballroom"}},
	{"Model", []string{"Runway", "Editorial", "Commercial", "Fitness", "Hand Model", "Fit Model"}},
	{"Voice Artist", []string{"Narration", "Animation", "Gaming", "Commercial", "Audiobooks", "IVR"}},
	{"Stunt Performer", []string{"Combat", "Driving", "Fire Stunts", "High Falls", "Wire Work", "Weaponry"}},
	{"Writer", []string{"Screenwriting", "Playwriting", "Poetry", "Copywriting", "Ghostwriting", "Editing"}},
	{"Director", []string{"Feature Film", "Short Film", "Music Video", "Commercial", "Documentary", "Theater"}},
}

// Taxonomy returns a copy of the role table in display order.
func Taxonomy() []RoleSkills {
	out := make([]RoleSkills, len(taxonomy))
	for i, rs := range taxonomy {
		out[i] = RoleSkills{Role: rs.Role, Skills: slices.Clone(rs.Skills)}
	}
	return out
}

func SkillsFor(role string) ([]string, bool) {
	for _, rs := range taxonomy {
		if rs.Role == role {
			return rs.Skills, true
		}
	}
	return nil, false
}

// RoleTag converts a display label to the stored profession tag,
// "Voice Artist" -> "voice_artist".
func RoleTag(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// RoleLabel is the inverse of RoleTag for labels in the table.
func RoleLabel(tag string) string {
	for _, rs := range taxonomy {
		if RoleTag(rs.Role) == tag {
			return rs.Role
		}
	}
	return ""
}
