// AngelaMos | 2026
// dto.go

package post

import (
	"time"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListParams struct {
	Owner    string `validate:"omitempty,uuid"`
	Status   string `validate:"omitempty,oneof=pending approved rejected"`
	Page     int    `validate:"omitempty,min=1"`
	PageSize int    `validate:"omitempty,min=1,max=100"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type CreateRequest struct {
	Title       string `validate:"required,max=140"`
	Description string `validate:"omitempty,max=2000"`
}

type PostResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MediaType   MediaType `json:"media_type"`
	MediaURLs   []string  `json:"media_urls"`
	UploadID    string    `json:"mux_upload_id,omitempty"`
	PlaybackID  string    `json:"mux_playback_id,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToPostResponse(p *Post) PostResponse {
	urls := []string(p.MediaURLs)
	if urls == nil {
		urls = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		MediaType:   p.MediaType,
		MediaURLs:   urls,
		UploadID:    deref(p.MuxUploadID),
		PlaybackID:  deref(p.MuxPlaybackID),
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPostResponseList(posts []Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i := range posts {
		out[i] = ToPostResponse(&posts[i])
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
