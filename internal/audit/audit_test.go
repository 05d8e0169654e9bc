// AngelaMos | 2026
// audit_test.go

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

func TestRecordIncludesActorAndTarget(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := middleware.WithSession(context.Background(), &middleware.Session{
		AccountID: "mod-1",
	})
	rec.Record(ctx, Entry{
		Action:     ActionApprove,
		TargetType: "account",
		TargetID:   "acct-9",
		Fields:     map[string]any{"from": "pending"},
	})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode audit line: %v", err)
	}
	if line["type"] != "audit" || line["action"] != "approve" {
		t.Fatalf("unexpected audit line: %v", line)
	}
	if line["actor_id"] != "mod-1" || line["target_id"] != "acct-9" {
		t.Fatalf("missing actor or target: %v", line)
	}
	if line["from"] != "pending" {
		t.Fatalf("missing extra field: %v", line)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), Entry{Action: ActionBan})
}
