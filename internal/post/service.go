// AngelaMos | 2026
// service.go

package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/audit"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/ids"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
)

type MediaUploader interface {
	UploadImage(ctx context.Context, folder string, file media.File) (string, error)
	UploadVideo(ctx context.Context, ownerType, ownerID string, file media.File) (*media.VideoTicket, error)
}

type Limits struct {
	ImageMaxBytes int64
	VideoMaxBytes int64
}

type Service struct {
	repo    Repository
	media   MediaUploader
	limits  Limits
	metrics *metrics.Metrics
	audit   *audit.Recorder
}

func NewService(
	repo Repository,
	uploader MediaUploader,
	limits Limits,
	m *metrics.Metrics,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		repo:    repo,
		media:   uploader,
		limits:  limits,
		metrics: m,
		audit:   recorder,
	}
}

// Create uploads file and records the post as pending. Video posts get
// their id before the transfer so the upload job can point at them.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateRequest,
	file media.File,
) (*Post, error) {
	kind, err := MediaTypeOf(file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	limit := s.limits.ImageMaxBytes
	if kind == MediaVideo {
		limit = s.limits.VideoMaxBytes
	}
	if limit > 0 && file.Size > limit {
		return nil, fmt.Errorf("create post: %d bytes: %w", file.Size, core.ErrPayloadTooBig)
	}

	p := &Post{
		ID:          ids.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		MediaType:   kind,
		MediaURLs:   account.StringList{},
		Status:      StatusPending,
	}

	switch kind {
	case MediaImage:
		url, err := s.media.UploadImage(ctx, media.FolderPosts, file)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		p.MediaURLs = account.StringList{url}
	case MediaVideo:
		ticket, err := s.media.UploadVideo(ctx, media.OwnerPost, p.ID, file)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		p.MuxUploadID = &ticket.UploadID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Mine(ctx context.Context, userID string) ([]Post, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Post, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Approve(ctx context.Context, id string) (*Post, error) {
	return s.moderate(ctx, id, StatusApproved, audit.ActionApprove)
}

func (s *Service) Reject(ctx context.Context, id string) (*Post, error) {
	return s.moderate(ctx, id, StatusRejected, audit.ActionReject)
}

func (s *Service) moderate(
	ctx context.Context,
	id string,
	to Status,
	action string,
) (*Post, error) {
	p, err := s.repo.Transition(ctx, id, to, Sources(to))
	s.metrics.StatusTransition("post_"+action, err)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:     action,
		TargetType: "post",
		TargetID:   id,
		Fields:     map[string]any{"status": string(p.Status), "owner_id": p.UserID},
	})
	return p, nil
}

func (s *Service) VideoRef(ctx context.Context, id string) (*media.VideoRef, error) {
	return s.repo.VideoRef(ctx, id)
}

func (s *Service) AttachPlayback(
	ctx context.Context,
	id, uploadID, assetID, playbackID string,
) (bool, error) {
	return s.repo.AttachPlayback(ctx, id, uploadID, assetID, playbackID)
}
