// AngelaMos | 2026
// repository.go

package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	ListByOwner(ctx context.Context, userID string) ([]Post, error)
	List(ctx context.Context, params ListParams) ([]Post, int, error)
	Transition(ctx context.Context, id string, to Status, from []Status) (*Post, error)
	VideoRef(ctx context.Context, id string) (*media.VideoRef, error)
	AttachPlayback(ctx context.Context, id, uploadID, assetID, playbackID string) (bool, error)
}

const postColumns = `
	id, user_id, title, description, media_type, media_urls,
	mux_upload_id, mux_asset_id, mux_playback_id, status, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (
			id, user_id, title, description, media_type, media_urls,
			mux_upload_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Description,
		p.MediaType,
		p.MediaURLs,
		p.MuxUploadID,
		p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func (r *repository) ListByOwner(ctx context.Context, userID string) ([]Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var posts []Post
	if err := r.db.SelectContext(ctx, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("list posts by owner: %w", err)
	}
	return posts, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Post, int, error) {
	params.Normalize()

	var (
		where strings.Builder
		args  []any
	)
	where.WriteString(" WHERE TRUE")
	if params.Owner != "" {
		args = append(args, params.Owner)
		fmt.Fprintf(&where, " AND user_id = $%d", len(args))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		fmt.Fprintf(&where, " AND status = $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`+where.String(), args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, params.PageSize, params.Offset())
	query := `SELECT ` + postColumns + ` FROM posts` + where.String() +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var posts []Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *repository) Transition(
	ctx context.Context,
	id string,
	to Status,
	from []Status,
) (*Post, error) {
	query := `
		UPDATE posts
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3::text[])
		RETURNING ` + postColumns

	var p Post
	err := r.db.GetContext(ctx, &p, query, id, to, core.TextArray(from))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id); err != nil {
			return nil, fmt.Errorf("transition post: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("transition post: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("transition post to %s: %w", to, ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("transition post: %w", err)
	}
	return &p, nil
}

func (r *repository) VideoRef(ctx context.Context, id string) (*media.VideoRef, error) {
	query := `
		SELECT user_id::text AS owner_account_id,
			COALESCE(mux_upload_id, '') AS upload_id,
			COALESCE(mux_asset_id, '') AS asset_id,
			COALESCE(mux_playback_id, '') AS playback_id
		FROM posts
		WHERE id = $1`

	var ref media.VideoRef
	err := r.db.GetContext(ctx, &ref, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post video: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("post video: %w", err)
	}
	return &ref, nil
}

// AttachPlayback writes the ids only while the post still points at
// uploadID and holds a different playback id.
func (r *repository) AttachPlayback(
	ctx context.Context,
	id, uploadID, assetID, playbackID string,
) (bool, error) {
	query := `
		UPDATE posts
		SET mux_asset_id = $3, mux_playback_id = $4, updated_at = NOW()
		WHERE id = $1 AND mux_upload_id = $2
			AND mux_playback_id IS DISTINCT FROM $4`

	result, err := r.db.ExecContext(ctx, query, id, uploadID, assetID, playbackID)
	if err != nil {
		return false, fmt.Errorf("attach post playback: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("attach post playback: %w", err)
	}
	return rows > 0, nil
}
