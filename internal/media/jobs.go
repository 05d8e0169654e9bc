// AngelaMos | 2026
// jobs.go

package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/core"
)

const (
	OwnerAccount = "account"
	OwnerPost    = "post"
)

// Job records one provider upload. Rows are never deleted; a job is
// superseded once its owner points at a newer upload id.
type Job struct {
	UploadID   string    `db:"upload_id"`
	OwnerType  string    `db:"owner_type"`
	OwnerID    string    `db:"owner_id"`
	AssetID    *string   `db:"asset_id"`
	PlaybackID *string   `db:"playback_id"`
	Status     Phase     `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, uploadID string) (*Job, error)
	UpdateState(ctx context.Context, uploadID string, state JobState) error
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]Job, error)
}

const jobColumns = `
	upload_id, owner_type, owner_id, asset_id, playback_id, status,
	created_at, updated_at`

type jobRepository struct {
	db core.DBTX
}

func NewJobRepository(db core.DBTX) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *Job) error {
	if job.Status == "" {
		job.Status = PhaseAwaitingFile
	}

	query := `
		INSERT INTO video_jobs (upload_id, owner_type, owner_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		job.UploadID,
		job.OwnerType,
		job.OwnerID,
		job.Status,
	)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create video job: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create video job: %w", err)
	}

	return nil
}

func (r *jobRepository) Get(ctx context.Context, uploadID string) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM video_jobs WHERE upload_id = $1`

	var job Job
	err := r.db.GetContext(ctx, &job, query, uploadID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get video job: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get video job: %w", err)
	}

	return &job, nil
}

// UpdateState stores the observed phase. Asset and playback ids are only
// overwritten by non-empty values.
func (r *jobRepository) UpdateState(
	ctx context.Context,
	uploadID string,
	state JobState,
) error {
	query := `
		UPDATE video_jobs SET
			status = $2,
			asset_id = COALESCE(NULLIF($3, ''), asset_id),
			playback_id = COALESCE(NULLIF($4, ''), playback_id),
			updated_at = NOW()
		WHERE upload_id = $1`

	result, err := r.db.ExecContext(ctx, query,
		uploadID,
		state.Phase,
		state.AssetID,
		state.PlaybackID,
	)
	if err != nil {
		return fmt.Errorf("update video job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update video job: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update video job: %w", core.ErrNotFound)
	}

	return nil
}

func (r *jobRepository) ListStale(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + jobColumns + `
		FROM video_jobs
		WHERE status IN ('awaiting_file', 'processing')
		  AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2`

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("list stale video jobs: %w", err)
	}

	return jobs, nil
}
