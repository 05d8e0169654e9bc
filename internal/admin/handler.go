// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/ids"
	"github.com/carterperez-dev/talentgrid/internal/lead"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
	"github.com/carterperez-dev/talentgrid/internal/post"
	"github.com/carterperez-dev/talentgrid/internal/reconcile"
)

type Accounts interface {
	Get(ctx context.Context, id string) (*account.Account, error)
	List(ctx context.Context, params account.ListParams) ([]account.Account, int, error)
	Counts(ctx context.Context) (*account.Counts, error)
	Approve(ctx context.Context, id string) (*account.Account, error)
	Reject(ctx context.Context, id string) (*account.Account, error)
	Ban(ctx context.Context, id string) (*account.Account, error)
	Delete(ctx context.Context, id string) error
}

type Posts interface {
	List(ctx context.Context, params post.ListParams) ([]post.Post, int, error)
	Approve(ctx context.Context, id string) (*post.Post, error)
	Reject(ctx context.Context, id string) (*post.Post, error)
}

type Leads interface {
	List(ctx context.Context, params lead.ListParams) ([]lead.Lead, int, error)
	Count(ctx context.Context) (int, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, actor reconcile.Actor, target reconcile.Target) (*reconcile.Result, error)
}

type HandlerConfig struct {
	Accounts   Accounts
	Posts      Posts
	Leads      Leads
	Reconciler Reconciler
	Pools      Pools
}

type Handler struct {
	accounts   Accounts
	posts      Posts
	leads      Leads
	reconciler Reconciler
	pools      Pools
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		accounts:   cfg.Accounts,
		posts:      cfg.Posts,
		leads:      cfg.Leads,
		reconciler: cfg.Reconciler,
		pools:      cfg.Pools,
	}
}

// RegisterRoutes mounts the moderator console. protected must authenticate
// and refresh the session.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	protected func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(protected)
		r.Use(middleware.RequireAdmin)

		r.Get("/stats", h.GetCounts)
		r.Get("/stats/system", h.GetSystemStats)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Route("/{accountID}", func(r chi.Router) {
				r.Get("/", h.GetAccount)
				r.Delete("/", h.DeleteAccount)
				r.Post("/approve", h.moderateAccount(Accounts.Approve))
				r.Post("/reject", h.moderateAccount(Accounts.Reject))
				r.Post("/ban", h.moderateAccount(Accounts.Ban))
				r.Post("/video/sync", h.SyncAccountVideo)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.ListPosts)
			r.Route("/{postID}", func(r chi.Router) {
				r.Post("/approve", h.moderatePost(Posts.Approve))
				r.Post("/reject", h.moderatePost(Posts.Reject))
				r.Post("/video/sync", h.SyncPostVideo)
			})
		})

		r.Get("/leads", h.ListLeads)
	})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := account.ListParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
		Search:   q.Get("search"),
		Role:     q.Get("role"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}
	if params.Status != "" {
		if _, err := account.ParseStatus(params.Status); err != nil {
			core.UnprocessableEntity(w, map[string]string{"status": "must be one of: pending approved rejected banned"})
			return
		}
	}
	params.Normalize()

	accounts, total, err := h.accounts.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.Paginated(w, account.ToProfileResponseList(accounts), params.Page, params.PageSize, total)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	a, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	core.OK(w, account.ToProfileResponse(a))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	core.NoContent(w)
}

func (h *Handler) moderateAccount(
	decide func(Accounts, context.Context, string) (*account.Account, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountID(w, r)
		if !ok {
			return
		}

		a, err := decide(h.accounts, r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		core.OK(w, account.ToProfileResponse(a))
	}
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := post.ListParams{
		Owner:    q.Get("owner"),
		Status:   q.Get("status"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	if params.Owner != "" {
		if _, err := uuid.Parse(params.Owner); err != nil {
			core.UnprocessableEntity(w, map[string]string{"owner": "must be an account id"})
			return
		}
	}
	if params.Status != "" {
		if _, ok := post.ParseStatus(params.Status); !ok {
			core.UnprocessableEntity(w, map[string]string{"status": "must be one of: pending approved rejected"})
			return
		}
	}
	params.Normalize()

	posts, total, err := h.posts.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.Paginated(w, post.ToPostResponseList(posts), params.Page, params.PageSize, total)
}

func (h *Handler) moderatePost(
	decide func(Posts, context.Context, string) (*post.Post, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "postID")
		if !ids.Valid(id) {
			core.NotFound(w, "post")
			return
		}

		p, err := decide(h.posts, r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		core.OK(w, post.ToPostResponse(p))
	}
}

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	params := lead.ListParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	params.Normalize()

	leads, total, err := h.leads.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.Paginated(w, lead.ToLeadResponseList(leads), params.Page, params.PageSize, total)
}

func (h *Handler) SyncAccountVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	h.sync(w, r, reconcile.Target{OwnerType: media.OwnerAccount, OwnerID: id})
}

func (h *Handler) SyncPostVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")
	if !ids.Valid(id) {
		core.NotFound(w, "post")
		return
	}
	h.sync(w, r, reconcile.Target{OwnerType: media.OwnerPost, OwnerID: id})
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request, target reconcile.Target) {
	target.JobID = r.URL.Query().Get("job_id")

	res, err := h.reconciler.Reconcile(r.Context(), reconcile.ActorFrom(r), target)
	if err != nil {
		reconcile.WriteError(w, err)
		return
	}
	core.OK(w, res)
}

func accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "accountID")
	if _, err := uuid.Parse(id); err != nil {
		core.NotFound(w, "account")
		return "", false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "record")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "admin accounts cannot be deleted")
	case errors.Is(err, account.ErrInvalidTransition), errors.Is(err, post.ErrInvalidTransition):
		core.Conflict(w, "status change not allowed from the current status", "INVALID_TRANSITION")
	default:
		core.InternalServerError(w, err)
	}
}
