// AngelaMos | 2026
// repository.go

package lead

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/talentgrid/internal/core"
)

type Repository interface {
	Create(ctx context.Context, l *Lead) error
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, company, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Company,
		l.Message,
		l.Status,
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	params.Normalize()

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, email, phone, company, message, status, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var leads []Lead
	if err := r.db.SelectContext(ctx, &leads, query, params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	return leads, total, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM leads`); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}
