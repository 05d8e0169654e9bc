// AngelaMos | 2026
// repository.go

package account

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
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Transition(ctx context.Context, id string, to Status, from []Status) (*Account, error)
	Submit(ctx context.Context, id string, sub Submission, from []Status) (*Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Account, int, error)
	Counts(ctx context.Context) (*Counts, error)
	VideoRef(ctx context.Context, id string) (*media.VideoRef, error)
	AttachPlayback(ctx context.Context, id, uploadID, assetID, playbackID string) (bool, error)
}

type Counts struct {
	Total   int `db:"total"`
	Pending int `db:"pending"`
}

const accountColumns = `
	id, email, password_hash, first_name, last_name, username, role,
	role_category, status, onboarding_completed, headline, bio, category,
	skills, experience, location_city, location_state, location_country,
	location_lat, location_lng, date_of_birth, age, gender, profile_image,
	mux_upload_id, mux_asset_id, mux_playback_id, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			role, role_category, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.FirstName,
		a.LastName,
		a.Role,
		a.RoleCategory,
		a.Status,
	)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`

	var a Account
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &a, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`

	var a Account
	err := r.db.GetContext(ctx, &a, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return &a, nil
}

func (r *repository) UsernameTaken(
	ctx context.Context,
	username, excludeID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users WHERE username = $1 AND id::text <> $2
		)`

	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, username, excludeID); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}

	return taken, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

// Transition moves the row to `to` only while its current status is one of
// `from`. Concurrent valid transitions resolve last-write-wins.
func (r *repository) Transition(
	ctx context.Context,
	id string,
	to Status,
	from []Status,
) (*Account, error) {
	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3::text[])
		RETURNING ` + accountColumns

	var a Account
	err := r.db.GetContext(ctx, &a, query, id, to, core.TextArray(from))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.explainMiss(ctx, id, "transition account")
	}
	if err != nil {
		return nil, fmt.Errorf("transition account: %w", err)
	}

	return &a, nil
}

func (r *repository) Submit(
	ctx context.Context,
	id string,
	sub Submission,
	from []Status,
) (*Account, error) {
	to, _ := Target(EventResubmit)

	query := `
		UPDATE users SET
			username = $2,
			headline = $3,
			bio = $4,
			role = $5,
			category = $6,
			skills = $7,
			experience = $8,
			location_city = $9,
			location_state = NULLIF($10, ''),
			location_country = $11,
			location_lat = $12,
			location_lng = $13,
			date_of_birth = $14,
			age = $15,
			gender = $16,
			profile_image = COALESCE(NULLIF($17, ''), profile_image),
			mux_upload_id = COALESCE(NULLIF($18::text, ''), mux_upload_id),
			mux_asset_id = CASE WHEN $18::text = '' THEN mux_asset_id ELSE NULL END,
			mux_playback_id = CASE WHEN $18::text = '' THEN mux_playback_id ELSE NULL END,
			onboarding_completed = TRUE,
			status = $20,
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($19::text[])
		RETURNING ` + accountColumns

	var a Account
	err := r.db.GetContext(ctx, &a, query,
		id,
		sub.Username,
		sub.Headline,
		sub.Bio,
		sub.Role,
		sub.Category,
		StringList(sub.Skills),
		ExperienceList(sub.Experience),
		sub.LocationCity,
		sub.LocationState,
		sub.LocationCountry,
		sub.LocationLat,
		sub.LocationLng,
		sub.DateOfBirth,
		sub.Age,
		sub.Gender,
		sub.ProfileImage,
		sub.VideoUploadID,
		core.TextArray(from),
		string(to),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.explainMiss(ctx, id, "submit profile")
	}
	if err != nil {
		if core.IsDuplicateKey(err) {
			return nil, fmt.Errorf("submit profile: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("submit profile: %w", err)
	}

	return &a, nil
}

// explainMiss distinguishes a missing row from a guarded update whose
// source status did not match.
func (r *repository) explainMiss(ctx context.Context, id, op string) error {
	var current Status
	err := r.db.GetContext(ctx, &current, `SELECT status FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: account is %s: %w", op, current, ErrInvalidTransition)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete account: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Account, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR username ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("role_category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		accountColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, total, nil
}

func (r *repository) Counts(ctx context.Context) (*Counts, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending
		FROM users`

	var c Counts
	if err := r.db.GetContext(ctx, &c, query); err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}

	return &c, nil
}

func (r *repository) VideoRef(
	ctx context.Context,
	id string,
) (*media.VideoRef, error) {
	query := `
		SELECT id::text AS owner_account_id,
		       COALESCE(mux_upload_id, '') AS upload_id,
		       COALESCE(mux_asset_id, '') AS asset_id,
		       COALESCE(mux_playback_id, '') AS playback_id
		FROM users
		WHERE id = $1`

	var ref media.VideoRef
	err := r.db.GetContext(ctx, &ref, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account video: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account video: %w", err)
	}

	return &ref, nil
}

// AttachPlayback is a no-op, reported as false, when the account has moved
// on to a newer upload or already stores this playback id.
func (r *repository) AttachPlayback(
	ctx context.Context,
	id, uploadID, assetID, playbackID string,
) (bool, error) {
	query := `
		UPDATE users
		SET mux_asset_id = $3, mux_playback_id = $4, updated_at = NOW()
		WHERE id = $1
		  AND mux_upload_id = $2
		  AND mux_playback_id IS DISTINCT FROM $4`

	result, err := r.db.ExecContext(ctx, query, id, uploadID, assetID, playbackID)
	if err != nil {
		return false, fmt.Errorf("attach playback: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("attach playback: %w", err)
	}

	return rows > 0, nil
}
