// AngelaMos | 2026
// audit.go

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionBan     = "ban"
	ActionDelete  = "delete"
	ActionSync    = "video_sync"
)

type Entry struct {
	Action     string
	TargetType string
	TargetID   string
	Fields     map[string]any
}

// Recorder writes moderation decisions as structured audit lines.
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger.With("type", "audit")}
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil {
		return
	}

	attrs := []any{
		"action", e.Action,
		"target_type", e.TargetType,
		"target_id", e.TargetID,
		"at", time.Now().UTC().Format(time.RFC3339Nano),
	}
	if actor := middleware.GetAccountID(ctx); actor != "" {
		attrs = append(attrs, "actor_id", actor)
	}
	if rid := middleware.GetRequestID(ctx); rid != "" {
		attrs = append(attrs, "request_id", rid)
	}
	for k, v := range e.Fields {
		attrs = append(attrs, k, v)
	}

	r.logger.InfoContext(ctx, "moderation decision", attrs...)
}
