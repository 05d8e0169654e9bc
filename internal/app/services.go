// AngelaMos | 2026
// services.go

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/audit"
	"github.com/carterperez-dev/talentgrid/internal/config"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/lead"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
	"github.com/carterperez-dev/talentgrid/internal/post"
	"github.com/carterperez-dev/talentgrid/internal/reconcile"
)

// Services is the store-backed domain graph shared by the API server and
// talentctl. Redis-backed pieces (sessions, drafts) are wired by the server.
type Services struct {
	Metrics   *metrics.Metrics
	Audit     *audit.Recorder
	Media     *media.Service
	Accounts  *account.Service
	Posts     *post.Service
	Leads     *lead.Service
	Reconcile *reconcile.Service
}

func NewServices(
	ctx context.Context,
	cfg *config.Config,
	db *core.Database,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Services, error) {
	client := &http.Client{Timeout: cfg.Media.Video.RequestTimeout}

	images, err := media.NewImageHost(ctx, cfg.Media.Image, client)
	if err != nil {
		return nil, fmt.Errorf("image host: %w", err)
	}
	mediaSvc := media.NewService(
		images,
		media.NewMux(cfg.Media.Video, client),
		media.NewJobRepository(db.DB),
		m,
		logger,
	)

	recorder := audit.NewRecorder(logger)

	accountSvc := account.NewService(account.NewRepository(db.DB), m, recorder)
	postSvc := post.NewService(
		post.NewRepository(db.DB),
		mediaSvc,
		post.Limits{
			ImageMaxBytes: cfg.Media.Image.MaxBytes,
			VideoMaxBytes: cfg.Media.Video.PostMaxBytes,
		},
		m,
		recorder,
	)

	reconcileSvc := reconcile.NewService(
		map[string]reconcile.RecordStore{
			media.OwnerAccount: accountSvc,
			media.OwnerPost:    postSvc,
		},
		mediaSvc,
		m,
		recorder,
		logger,
	)

	return &Services{
		Metrics:   m,
		Audit:     recorder,
		Media:     mediaSvc,
		Accounts:  accountSvc,
		Posts:     postSvc,
		Leads:     lead.NewService(lead.NewRepository(db.DB), logger),
		Reconcile: reconcileSvc,
	}, nil
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
