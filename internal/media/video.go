// AngelaMos | 2026
// video.go

package media

import (
	"context"
	"errors"
)

// Phase is the provider side state of one video upload job.
type Phase string

const (
	PhaseAwaitingFile Phase = "awaiting_file"
	PhaseProcessing   Phase = "processing"
	PhaseReady        Phase = "ready"
	PhaseErrored      Phase = "errored"
	PhaseSuperseded   Phase = "superseded"
)

// Terminal reports whether the job can no longer change. Superseded jobs
// are ones no record points at any more.
func (p Phase) Terminal() bool {
	return p == PhaseReady || p == PhaseErrored || p == PhaseSuperseded
}

var ErrJobNotFound = errors.New("video job not found")

type VideoTicket struct {
	UploadURL string `json:"upload_url"`
	UploadID  string `json:"upload_id"`
}

// JobState is what the provider reports for an upload id. PlaybackID is
// only set when Phase is ready.
type JobState struct {
	Phase      Phase  `json:"phase"`
	AssetID    string `json:"asset_id,omitempty"`
	PlaybackID string `json:"playback_id,omitempty"`
}

type VideoProvider interface {
	CreateUpload(ctx context.Context) (*VideoTicket, error)
	Transfer(ctx context.Context, ticket *VideoTicket, file File) error
	JobState(ctx context.Context, uploadID string) (*JobState, error)
}

// VideoRef is the video a record currently points at.
type VideoRef struct {
	OwnerAccountID string `db:"owner_account_id"`
	UploadID       string `db:"upload_id"`
	AssetID        string `db:"asset_id"`
	PlaybackID     string `db:"playback_id"`
}

func (r *VideoRef) PointsAt(uploadID string) bool {
	return r != nil && r.UploadID != "" && r.UploadID == uploadID
}
