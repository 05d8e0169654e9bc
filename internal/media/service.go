// AngelaMos | 2026
// service.go

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
)

const (
	kindImage = "image"
	kindVideo = "video"
)

// Service fronts the image host, the video provider and the job table.
type Service struct {
	images  ImageHost
	video   VideoProvider
	jobs    JobRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(
	images ImageHost,
	video VideoProvider,
	jobs JobRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		images:  images,
		video:   video,
		jobs:    jobs,
		metrics: m,
		logger:  logger,
	}
}

func (s *Service) SignImage(ctx context.Context, folder string) (*ImageTicket, error) {
	if folder == "" {
		folder = FolderProfiles
	}
	return s.images.SignUpload(ctx, folder)
}

// UploadImage signs a fresh ticket and transfers file with it, returning
// the durable URL.
func (s *Service) UploadImage(
	ctx context.Context,
	folder string,
	file File,
) (url string, err error) {
	ctx, span := core.StartSpan(ctx, "media.upload_image",
		attribute.String("media.folder", folder))
	defer span.End()
	defer func() { s.metrics.MediaUpload(kindImage, err) }()

	ticket, err := s.SignImage(ctx, folder)
	if err != nil {
		return "", err
	}

	url, err = s.images.Upload(ctx, ticket, file)
	if err != nil {
		core.SetSpanError(ctx, err)
		return "", err
	}

	return url, nil
}

// IssueVideoTicket creates a provider upload and records its job for the
// owner.
func (s *Service) IssueVideoTicket(
	ctx context.Context,
	ownerType, ownerID string,
) (*VideoTicket, error) {
	ticket, err := s.video.CreateUpload(ctx)
	if err != nil {
		return nil, err
	}

	job := &Job{
		UploadID:  ticket.UploadID,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Status:    PhaseAwaitingFile,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("record video job: %w", err)
	}

	return ticket, nil
}

// UploadVideo issues a ticket and transfers file to it. It returns once the
// provider accepted the bytes; transcoding continues asynchronously.
func (s *Service) UploadVideo(
	ctx context.Context,
	ownerType, ownerID string,
	file File,
) (ticket *VideoTicket, err error) {
	ctx, span := core.StartSpan(ctx, "media.upload_video",
		attribute.String("media.owner_type", ownerType))
	defer span.End()
	defer func() { s.metrics.MediaUpload(kindVideo, err) }()

	ticket, err = s.IssueVideoTicket(ctx, ownerType, ownerID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if err := s.video.Transfer(ctx, ticket, file); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	core.AddSpanEvent(ctx, "video.transferred",
		attribute.String("media.upload_id", ticket.UploadID))
	return ticket, nil
}

func (s *Service) Job(ctx context.Context, uploadID string) (*Job, error) {
	return s.jobs.Get(ctx, uploadID)
}

// OwnedJob returns the job only when it belongs to the given owner.
func (s *Service) OwnedJob(
	ctx context.Context,
	uploadID, ownerType, ownerID string,
) (*Job, error) {
	job, err := s.jobs.Get(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if job.OwnerType != ownerType || job.OwnerID != ownerID {
		return nil, fmt.Errorf("video job %s: %w", uploadID, core.ErrForbidden)
	}
	return job, nil
}

func (s *Service) JobState(ctx context.Context, uploadID string) (*JobState, error) {
	return s.video.JobState(ctx, uploadID)
}

// RecordJobState stores the observed phase. A missing job row is logged and
// ignored; uploads issued before jobs were recorded have none.
func (s *Service) RecordJobState(
	ctx context.Context,
	uploadID string,
	state JobState,
) error {
	err := s.jobs.UpdateState(ctx, uploadID, state)
	if errors.Is(err, core.ErrNotFound) {
		s.logger.Warn("no job row for video upload", "upload_id", uploadID)
		return nil
	}
	return err
}

func (s *Service) StaleJobs(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
) ([]Job, error) {
	return s.jobs.ListStale(ctx, time.Now().Add(-olderThan), limit)
}
