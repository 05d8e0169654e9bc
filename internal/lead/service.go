// AngelaMos | 2026
// service.go

package lead

import (
	"context"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/talentgrid/internal/ids"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Lead, error) {
	l := &Lead{
		ID:      ids.New(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Company: optional(req.Company),
		Message: optional(req.Message),
		Status:  StatusNew,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "lead received", "lead_id", l.ID)
	return l, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
