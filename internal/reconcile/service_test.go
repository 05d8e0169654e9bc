// AngelaMos | 2026
// service_test.go

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

type fakeRecords struct {
	refs   map[string]*media.VideoRef
	writes int
}

func (f *fakeRecords) VideoRef(_ context.Context, id string) (*media.VideoRef, error) {
	ref, ok := f.refs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *ref
	return &cp, nil
}

func (f *fakeRecords) AttachPlayback(_ context.Context, id, uploadID, assetID, playbackID string) (bool, error) {
	ref, ok := f.refs[id]
	if !ok || ref.UploadID != uploadID || ref.PlaybackID == playbackID {
		return false, nil
	}
	ref.AssetID, ref.PlaybackID = assetID, playbackID
	f.writes++
	return true, nil
}

type fakeJobs struct {
	state    *media.JobState
	err      error
	calls    int
	recorded []media.JobState
	touched  []string
	stale    []media.Job
}

func (f *fakeJobs) JobState(context.Context, string) (*media.JobState, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.state
	return &cp, nil
}

func (f *fakeJobs) RecordJobState(_ context.Context, uploadID string, state media.JobState) error {
	f.recorded = append(f.recorded, state)
	f.touched = append(f.touched, uploadID)
	return nil
}

func (f *fakeJobs) StaleJobs(context.Context, time.Duration, int) ([]media.Job, error) {
	return f.stale, nil
}

func newTestReconciler(records *fakeRecords, jobs *fakeJobs) *Service {
	return NewService(map[string]RecordStore{media.OwnerAccount: records}, jobs, nil, nil, nil)
}

func uploadedRecords() *fakeRecords {
	return &fakeRecords{refs: map[string]*media.VideoRef{
		"acc-1": {OwnerAccountID: "acc-1", UploadID: "up-1"},
	}}
}

var owner = Actor{AccountID: "acc-1"}

func target() Target {
	return Target{OwnerType: media.OwnerAccount, OwnerID: "acc-1", JobID: "up-1"}
}

func TestReconcileProcessingWritesNothing(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseProcessing, AssetID: "as-1"}}
	svc := newTestReconciler(records, jobs)

	for i := 0; i < 2; i++ {
		res, err := svc.Reconcile(context.Background(), owner, target())
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if res.Phase != media.PhaseProcessing || res.PlaybackID != "" || res.Persisted {
			t.Fatalf("call %d: %+v", i, res)
		}
	}
	if records.writes != 0 {
		t.Fatalf("record written %d times", records.writes)
	}
}

func TestReconcileReadyPersistsExactlyOnce(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseProcessing}}
	svc := newTestReconciler(records, jobs)
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx, owner, target()); err != nil {
		t.Fatalf("first: %v", err)
	}

	jobs.state = &media.JobState{Phase: media.PhaseReady, AssetID: "as-1", PlaybackID: "pb-1"}
	second, err := svc.Reconcile(ctx, owner, target())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.Persisted || second.PlaybackID != "pb-1" {
		t.Fatalf("second: %+v", second)
	}

	third, err := svc.Reconcile(ctx, owner, target())
	if err != nil {
		t.Fatalf("third: %v", err)
	}
	if third.Persisted || third.PlaybackID != "pb-1" || third.Phase != media.PhaseReady {
		t.Fatalf("third: %+v", third)
	}

	if records.writes != 1 {
		t.Fatalf("writes = %d, want 1", records.writes)
	}
	if ref := records.refs["acc-1"]; ref.AssetID != "as-1" || ref.PlaybackID != "pb-1" {
		t.Fatalf("ref = %+v", ref)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseReady, AssetID: "as-1", PlaybackID: "pb-1"}}
	svc := newTestReconciler(records, jobs)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, owner, target())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Reconcile(ctx, owner, target())
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.Phase != second.Phase || first.PlaybackID != second.PlaybackID {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if records.writes != 1 {
		t.Fatalf("writes = %d", records.writes)
	}
}

func TestReconcileMissingJobReportsProcessing(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{err: fmt.Errorf("mux: %w", media.ErrJobNotFound)}
	svc := newTestReconciler(records, jobs)

	res, err := svc.Reconcile(context.Background(), owner, target())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Phase != media.PhaseProcessing {
		t.Fatalf("phase = %s", res.Phase)
	}
	if len(jobs.recorded) != 0 {
		t.Fatal("job row updated for an unknown upload")
	}
}

func TestReconcileSupersededUpload(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseReady, PlaybackID: "pb-old"}}
	svc := newTestReconciler(records, jobs)

	tg := target()
	tg.JobID = "up-0"
	_, err := svc.Reconcile(context.Background(), owner, tg)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if jobs.calls != 0 || records.writes != 0 {
		t.Fatal("superseded upload reached the provider")
	}
}

func TestReconcileChecksOwnership(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseProcessing}}
	svc := newTestReconciler(records, jobs)

	_, err := svc.Reconcile(context.Background(), Actor{AccountID: "acc-2"}, target())
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Reconcile(context.Background(), Actor{AccountID: "mod-1", IsAdmin: true}, target()); err != nil {
		t.Fatalf("admin sync: %v", err)
	}
}

func TestReconcileDefaultsToCurrentUpload(t *testing.T) {
	records := uploadedRecords()
	records.refs["acc-2"] = &media.VideoRef{OwnerAccountID: "acc-2"}
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseAwaitingFile}}
	svc := newTestReconciler(records, jobs)

	res, err := svc.Reconcile(context.Background(), System, Target{OwnerType: media.OwnerAccount, OwnerID: "acc-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.JobID != "up-1" || res.Phase != media.PhaseAwaitingFile {
		t.Fatalf("result = %+v", res)
	}

	_, err = svc.Reconcile(context.Background(), System, Target{OwnerType: media.OwnerAccount, OwnerID: "acc-2"})
	if !errors.Is(err, ErrNoVideo) {
		t.Fatalf("expected ErrNoVideo, got %v", err)
	}
}

func TestSweepDryRunSkipsProvider(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{
		state: &media.JobState{Phase: media.PhaseReady, AssetID: "as-1", PlaybackID: "pb-1"},
		stale: []media.Job{
			{UploadID: "up-1", OwnerType: media.OwnerAccount, OwnerID: "acc-1"},
			{UploadID: "up-9", OwnerType: media.OwnerAccount, OwnerID: "acc-1"},
		},
	}
	svc := newTestReconciler(records, jobs)
	ctx := context.Background()

	items, err := svc.Sweep(ctx, time.Hour, 10, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(items) != 2 || jobs.calls != 0 {
		t.Fatalf("dry run items=%d provider calls=%d", len(items), jobs.calls)
	}

	items, err = svc.Sweep(ctx, time.Hour, 10, false)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if items[0].Err != nil || !items[0].Result.Persisted {
		t.Fatalf("first item: %+v", items[0])
	}
	if !errors.Is(items[1].Err, ErrSuperseded) {
		t.Fatalf("second item: %+v", items[1])
	}
}

func TestSweepRetiresOrphanedJobs(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{
		state: &media.JobState{Phase: media.PhaseProcessing},
		stale: []media.Job{
			{UploadID: "up-0", OwnerType: media.OwnerAccount, OwnerID: "acc-1", Status: media.PhaseAwaitingFile},
			{UploadID: "up-7", OwnerType: media.OwnerAccount, OwnerID: "acc-gone", Status: media.PhaseAwaitingFile},
		},
	}
	svc := newTestReconciler(records, jobs)

	items, err := svc.Sweep(context.Background(), time.Hour, 10, false)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(items) != 2 || jobs.calls != 0 {
		t.Fatalf("items=%d provider calls=%d", len(items), jobs.calls)
	}
	if !errors.Is(items[0].Err, ErrSuperseded) || !errors.Is(items[1].Err, core.ErrNotFound) {
		t.Fatalf("items = %+v", items)
	}

	if len(jobs.touched) != 2 || jobs.touched[0] != "up-0" || jobs.touched[1] != "up-7" {
		t.Fatalf("retired = %v", jobs.touched)
	}
	for _, st := range jobs.recorded {
		if st.Phase != media.PhaseSuperseded || !st.Phase.Terminal() {
			t.Fatalf("recorded %+v", st)
		}
	}
}

func TestForcedSyncDoesNotRetireJobs(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseProcessing}}
	svc := newTestReconciler(records, jobs)

	tg := target()
	tg.JobID = "up-0"
	if _, err := svc.Reconcile(context.Background(), Actor{AccountID: "mod-1", IsAdmin: true}, tg); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if len(jobs.touched) != 0 {
		t.Fatalf("direct sync changed job rows: %v", jobs.touched)
	}
}

func TestSyncHandler(t *testing.T) {
	records := uploadedRecords()
	jobs := &fakeJobs{state: &media.JobState{Phase: media.PhaseReady, AssetID: "as-1", PlaybackID: "pb-1"}}
	h := NewHandler(newTestReconciler(records, jobs))

	req := httptest.NewRequest(http.MethodPost, "/v1/media/video/sync",
		strings.NewReader(`{"account_id":"acc-1","job_id":"up-1"}`))
	req = req.WithContext(middleware.WithSession(req.Context(), &middleware.Session{AccountID: "acc-1"}))
	rec := httptest.NewRecorder()
	h.Sync(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"playback_id":"pb-1"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/media/video/sync",
		strings.NewReader(`{"account_id":"acc-1","job_id":"up-0"}`))
	req = req.WithContext(middleware.WithSession(req.Context(), &middleware.Session{AccountID: "acc-1"}))
	rec = httptest.NewRecorder()
	h.Sync(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("superseded status = %d", rec.Code)
	}
}
