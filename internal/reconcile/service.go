// AngelaMos | 2026
// service.go

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/talentgrid/internal/audit"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
)

var (
	ErrSuperseded   = errors.New("video upload superseded")
	ErrNoVideo      = errors.New("record has no video")
	ErrUnknownOwner = errors.New("unknown video owner type")
)

// RecordStore is a table whose rows point at one video upload.
type RecordStore interface {
	VideoRef(ctx context.Context, id string) (*media.VideoRef, error)
	AttachPlayback(ctx context.Context, id, uploadID, assetID, playbackID string) (bool, error)
}

type JobSource interface {
	JobState(ctx context.Context, uploadID string) (*media.JobState, error)
	RecordJobState(ctx context.Context, uploadID string, state media.JobState) error
	StaleJobs(ctx context.Context, olderThan time.Duration, limit int) ([]media.Job, error)
}

type Actor struct {
	AccountID string
	IsAdmin   bool
}

// System is the actor used by the sweep.
var System = Actor{AccountID: "system", IsAdmin: true}

type Target struct {
	OwnerType string
	OwnerID   string
	JobID     string
}

type Result struct {
	OwnerType  string      `json:"owner_type"`
	OwnerID    string      `json:"owner_id"`
	JobID      string      `json:"job_id"`
	Phase      media.Phase `json:"phase"`
	PlaybackID string      `json:"playback_id,omitempty"`
	Persisted  bool        `json:"persisted"`
}

type Service struct {
	owners  map[string]RecordStore
	jobs    JobSource
	metrics *metrics.Metrics
	audit   *audit.Recorder
	logger  *slog.Logger
}

func NewService(
	owners map[string]RecordStore,
	jobs JobSource,
	m *metrics.Metrics,
	recorder *audit.Recorder,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		owners:  owners,
		jobs:    jobs,
		metrics: m,
		audit:   recorder,
		logger:  logger,
	}
}

// Reconcile brings one record in line with the provider. The playback id
// is written at most once per upload; repeated calls with no provider
// change return the same result and write nothing. An empty JobID means
// the upload the record currently points at.
func (s *Service) Reconcile(
	ctx context.Context,
	actor Actor,
	target Target,
) (*Result, error) {
	ctx, span := core.StartSpan(ctx, "reconcile.video",
		attribute.String("video.owner_type", target.OwnerType),
		attribute.String("video.owner_id", target.OwnerID),
	)
	defer span.End()

	store, ok := s.owners[target.OwnerType]
	if !ok {
		return nil, fmt.Errorf("reconcile %q: %w", target.OwnerType, ErrUnknownOwner)
	}

	ref, err := store.VideoRef(ctx, target.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	if !actor.IsAdmin && ref.OwnerAccountID != actor.AccountID {
		return nil, fmt.Errorf("reconcile: %w", core.ErrForbidden)
	}

	jobID := target.JobID
	if jobID == "" {
		if ref.UploadID == "" {
			return nil, fmt.Errorf("reconcile %s %s: %w", target.OwnerType, target.OwnerID, ErrNoVideo)
		}
		jobID = ref.UploadID
	}
	if !ref.PointsAt(jobID) {
		return nil, fmt.Errorf("reconcile job %s: %w", jobID, ErrSuperseded)
	}

	res := &Result{
		OwnerType: target.OwnerType,
		OwnerID:   target.OwnerID,
		JobID:     jobID,
	}

	if ref.PlaybackID != "" {
		res.Phase = media.PhaseReady
		res.PlaybackID = ref.PlaybackID
		s.metrics.Reconciliation(string(res.Phase), false)
		return res, nil
	}

	state, err := s.jobs.JobState(ctx, jobID)
	switch {
	case errors.Is(err, media.ErrJobNotFound):
		state = &media.JobState{Phase: media.PhaseProcessing}
	case err != nil:
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("reconcile job %s: %w", jobID, err)
	default:
		if recErr := s.jobs.RecordJobState(ctx, jobID, *state); recErr != nil {
			s.logger.Warn("record video job state",
				"upload_id", jobID,
				"phase", state.Phase,
				"error", recErr,
			)
		}
	}

	res.Phase = state.Phase
	if state.Phase == media.PhaseReady && state.PlaybackID != "" {
		persisted, err := store.AttachPlayback(ctx, target.OwnerID, jobID, state.AssetID, state.PlaybackID)
		if err != nil {
			core.SetSpanError(ctx, err)
			return nil, fmt.Errorf("reconcile job %s: %w", jobID, err)
		}
		res.PlaybackID = state.PlaybackID
		res.Persisted = persisted
		core.AddSpanEvent(ctx, "video.playback_attached",
			attribute.Bool("video.persisted", persisted))
	}

	s.metrics.Reconciliation(string(res.Phase), res.Persisted)
	if actor.IsAdmin {
		s.audit.Record(ctx, audit.Entry{
			Action:     audit.ActionSync,
			TargetType: target.OwnerType,
			TargetID:   target.OwnerID,
			Fields: map[string]any{
				"upload_id": jobID,
				"phase":     string(res.Phase),
				"persisted": res.Persisted,
				"by":        actor.AccountID,
			},
		})
	}

	return res, nil
}

type SweepItem struct {
	Job    media.Job
	Result *Result
	Err    error
}

// Sweep reconciles upload jobs that have sat in a non-terminal phase for
// longer than olderThan. With dryRun it only lists them.
func (s *Service) Sweep(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
	dryRun bool,
) ([]SweepItem, error) {
	jobs, err := s.jobs.StaleJobs(ctx, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	items := make([]SweepItem, 0, len(jobs))
	for _, job := range jobs {
		item := SweepItem{Job: job}
		if !dryRun {
			item.Result, item.Err = s.Reconcile(ctx, System, Target{
				OwnerType: job.OwnerType,
				OwnerID:   job.OwnerID,
				JobID:     job.UploadID,
			})
			if retirable(item.Err) {
				s.retire(ctx, job)
			} else if item.Err != nil {
				s.logger.Warn("sweep job failed",
					"upload_id", job.UploadID,
					"owner_type", job.OwnerType,
					"owner_id", job.OwnerID,
					"error", item.Err,
				)
			}
		}
		items = append(items, item)
	}

	return items, nil
}

// retirable reports whether err means no record will ever point at the
// job again, so further sweeps cannot change its outcome.
func retirable(err error) bool {
	return errors.Is(err, ErrSuperseded) || errors.Is(err, core.ErrNotFound)
}

// retire takes a job out of the stale set by recording it as superseded.
func (s *Service) retire(ctx context.Context, job media.Job) {
	err := s.jobs.RecordJobState(ctx, job.UploadID, media.JobState{Phase: media.PhaseSuperseded})
	if err != nil {
		s.logger.Warn("retire video job",
			"upload_id", job.UploadID,
			"error", err,
		)
		return
	}
	s.logger.Info("video job retired",
		"upload_id", job.UploadID,
		"owner_type", job.OwnerType,
		"owner_id", job.OwnerID,
	)
}
