// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/ids"
	"github.com/carterperez-dev/talentgrid/internal/lead"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
	"github.com/carterperez-dev/talentgrid/internal/post"
	"github.com/carterperez-dev/talentgrid/internal/reconcile"
)

const (
	pendingID = "11111111-1111-4111-8111-111111111111"
	bannedID  = "22222222-2222-4222-8222-222222222222"
	adminID   = "33333333-3333-4333-8333-333333333333"
)

type fakeAccounts struct {
	accounts map[string]*account.Account
	deleted  []string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]*account.Account{
		pendingID: {ID: pendingID, Email: "p@example.com", Status: account.StatusPending, RoleCategory: account.CategoryTalent},
		bannedID:  {ID: bannedID, Email: "b@example.com", Status: account.StatusBanned, RoleCategory: account.CategoryTalent},
		adminID:   {ID: adminID, Email: "a@example.com", Status: account.StatusApproved, RoleCategory: account.CategoryAdmin},
	}}
}

func (f *fakeAccounts) Get(_ context.Context, id string) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) List(_ context.Context, _ account.ListParams) ([]account.Account, int, error) {
	return []account.Account{*f.accounts[pendingID]}, 1, nil
}

func (f *fakeAccounts) Counts(_ context.Context) (*account.Counts, error) {
	return &account.Counts{Total: 3, Pending: 1}, nil
}

func (f *fakeAccounts) move(id string, event account.Event) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	next, err := account.Next(a.Status, event)
	if err != nil {
		return nil, err
	}
	a.Status = next
	return a, nil
}

func (f *fakeAccounts) Approve(_ context.Context, id string) (*account.Account, error) {
	return f.move(id, account.EventApprove)
}

func (f *fakeAccounts) Reject(_ context.Context, id string) (*account.Account, error) {
	return f.move(id, account.EventReject)
}

func (f *fakeAccounts) Ban(_ context.Context, id string) (*account.Account, error) {
	return f.move(id, account.EventBan)
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	a, ok := f.accounts[id]
	if !ok {
		return core.ErrNotFound
	}
	if a.IsAdmin() {
		return fmt.Errorf("delete: %w", core.ErrForbidden)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePosts struct{}

func (fakePosts) List(_ context.Context, _ post.ListParams) ([]post.Post, int, error) {
	return nil, 0, nil
}

func (fakePosts) Approve(_ context.Context, id string) (*post.Post, error) {
	return &post.Post{ID: id, Status: post.StatusApproved}, nil
}

func (fakePosts) Reject(_ context.Context, _ string) (*post.Post, error) {
	return nil, post.ErrInvalidTransition
}

type fakeLeads struct{}

func (fakeLeads) List(_ context.Context, _ lead.ListParams) ([]lead.Lead, int, error) {
	return nil, 0, nil
}

func (fakeLeads) Count(_ context.Context) (int, error) { return 7, nil }

type fakeReconciler struct {
	actor  reconcile.Actor
	target reconcile.Target
}

func (f *fakeReconciler) Reconcile(
	_ context.Context,
	actor reconcile.Actor,
	target reconcile.Target,
) (*reconcile.Result, error) {
	f.actor, f.target = actor, target
	return &reconcile.Result{OwnerType: target.OwnerType, OwnerID: target.OwnerID, Phase: media.PhaseProcessing}, nil
}

func withSession(category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithSession(r.Context(), &middleware.Session{
				AccountID:    adminID,
				RoleCategory: category,
				Status:       middleware.StatusApproved,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type fixture struct {
	router     chi.Router
	accounts   *fakeAccounts
	reconciler *fakeReconciler
}

func newFixture(category string) *fixture {
	f := &fixture{accounts: newFakeAccounts(), reconciler: &fakeReconciler{}}
	h := NewHandler(HandlerConfig{
		Accounts:   f.accounts,
		Posts:      fakePosts{},
		Leads:      fakeLeads{},
		Reconciler: f.reconciler,
	})
	f.router = chi.NewRouter()
	h.RegisterRoutes(f.router, withSession(category))
	return f
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestConsoleRequiresAdminCategory(t *testing.T) {
	f := newFixture(middleware.CategoryTalent)
	if rec := f.do(http.MethodGet, "/admin/stats"); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCounts(t *testing.T) {
	f := newFixture(middleware.CategoryAdmin)
	rec := f.do(http.MethodGet, "/admin/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Data CountsResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data != (CountsResponse{TotalUsers: 3, PendingUsers: 1, TotalLeads: 7}) {
		t.Fatalf("counts = %+v", body.Data)
	}
}

func TestModerationDecisions(t *testing.T) {
	f := newFixture(middleware.CategoryAdmin)

	if rec := f.do(http.MethodPost, "/admin/accounts/"+pendingID+"/approve"); rec.Code != http.StatusOK {
		t.Fatalf("approve pending = %d", rec.Code)
	}
	if f.accounts.accounts[pendingID].Status != account.StatusApproved {
		t.Fatalf("status = %s", f.accounts.accounts[pendingID].Status)
	}
	if rec := f.do(http.MethodPost, "/admin/accounts/"+bannedID+"/approve"); rec.Code != http.StatusConflict {
		t.Fatalf("approve banned = %d, want 409", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/admin/accounts/not-a-uuid/ban"); rec.Code != http.StatusNotFound {
		t.Fatalf("bad id = %d, want 404", rec.Code)
	}
}

func TestDeleteRefusesAdminAccounts(t *testing.T) {
	f := newFixture(middleware.CategoryAdmin)

	if rec := f.do(http.MethodDelete, "/admin/accounts/"+adminID); rec.Code != http.StatusForbidden {
		t.Fatalf("delete admin = %d, want 403", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/admin/accounts/"+pendingID); rec.Code != http.StatusNoContent {
		t.Fatalf("delete talent = %d, want 204", rec.Code)
	}
	if len(f.accounts.deleted) != 1 || f.accounts.deleted[0] != pendingID {
		t.Fatalf("deleted = %v", f.accounts.deleted)
	}
}

func TestPostModeration(t *testing.T) {
	f := newFixture(middleware.CategoryAdmin)
	id := ids.New()

	if rec := f.do(http.MethodPost, "/admin/posts/"+id+"/approve"); rec.Code != http.StatusOK {
		t.Fatalf("approve post = %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/admin/posts/"+id+"/reject"); rec.Code != http.StatusConflict {
		t.Fatalf("reject post = %d, want 409", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/admin/posts?owner=bob"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad owner filter = %d, want 422", rec.Code)
	}
}

func TestForceSyncRunsAsAdmin(t *testing.T) {
	f := newFixture(middleware.CategoryAdmin)
	id := ids.New()

	rec := f.do(http.MethodPost, "/admin/posts/"+id+"/video/sync?job_id=up-9")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync = %d", rec.Code)
	}
	want := reconcile.Target{OwnerType: media.OwnerPost, OwnerID: id, JobID: "up-9"}
	if f.reconciler.target != want || !f.reconciler.actor.IsAdmin {
		t.Fatalf("reconcile got %+v as %+v", f.reconciler.target, f.reconciler.actor)
	}
}
