// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/reconcile"
)

func TestReconcileTargetRequiresOneOwner(t *testing.T) {
	if _, err := reconcileTarget("", "", ""); err == nil {
		t.Fatal("expected error with no owner")
	}
	if _, err := reconcileTarget("a", "p", ""); err == nil {
		t.Fatal("expected error with two owners")
	}

	target, err := reconcileTarget("", "01J0POST", "up-1")
	if err != nil {
		t.Fatalf("reconcileTarget: %v", err)
	}
	if target.OwnerType != media.OwnerPost || target.OwnerID != "01J0POST" || target.JobID != "up-1" {
		t.Fatalf("target = %+v", target)
	}
}

func TestSweepRows(t *testing.T) {
	rows := sweepRows([]reconcile.SweepItem{
		{
			Job:    media.Job{UploadID: "up-1", OwnerType: "account", OwnerID: "a-1", Status: media.PhaseProcessing},
			Result: &reconcile.Result{Phase: media.PhaseReady, Persisted: true},
		},
		{
			Job: media.Job{UploadID: "up-2", OwnerType: "post", OwnerID: "p-1", Status: media.PhaseAwaitingFile},
			Err: errors.New("superseded"),
		},
	})

	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][1] != "account:a-1" || rows[0][3] != string(media.PhaseReady) || rows[0][4] != "true" {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if rows[1][3] != "-" || rows[1][5] != "superseded" {
		t.Fatalf("row 1 = %v", rows[1])
	}
}

func TestRenderTableIncludesHeaders(t *testing.T) {
	out := renderTable([]string{"Upload", "Phase"}, [][]string{{"up-1"}})
	if !strings.Contains(out, "UPLOAD") || !strings.Contains(out, "up-1") {
		t.Fatalf("table = %q", out)
	}
}

func TestRootHelpRunsWithoutConfig(t *testing.T) {
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"keys", "--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(buf.String(), "generate") {
		t.Fatalf("help = %q", buf.String())
	}
}
