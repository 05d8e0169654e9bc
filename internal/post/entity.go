// AngelaMos | 2026
// entity.go

package post

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/account"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

var (
	ErrInvalidTransition = errors.New("invalid post status transition")
	ErrUnsupportedMedia  = errors.New("unsupported post media type")
)

// Moderators may take down an approved post and reinstate a rejected one.
var transitions = map[Status][]Status{
	StatusApproved: {StatusPending, StatusRejected},
	StatusRejected: {StatusPending, StatusApproved},
}

func Sources(to Status) []Status {
	return slices.Clone(transitions[to])
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

// MediaTypeOf classifies an upload by its declared content type.
func MediaTypeOf(contentType string) (MediaType, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo, nil
	default:
		return "", ErrUnsupportedMedia
	}
}

type Post struct {
	ID            string             `db:"id"`
	UserID        string             `db:"user_id"`
	Title         string             `db:"title"`
	Description   string             `db:"description"`
	MediaType     MediaType          `db:"media_type"`
	MediaURLs     account.StringList `db:"media_urls"`
	MuxUploadID   *string            `db:"mux_upload_id"`
	MuxAssetID    *string            `db:"mux_asset_id"`
	MuxPlaybackID *string            `db:"mux_playback_id"`
	Status        Status             `db:"status"`
	CreatedAt     time.Time          `db:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at"`
}
