// AngelaMos | 2026
// handler.go

package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the account pages. protected must authenticate and
// refresh the session status.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	protected func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(protected)

		r.Get("/dashboard", h.Dashboard)
		r.With(middleware.RequireApproved).Get("/profile/me", h.GetMe)
		r.Get("/profiles/{accountID}", h.GetProfile)
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.Unauthorized(w, "")
		return
	}

	core.OK(w, DashboardResponse{
		View: DashboardView(session),
		Account: SessionBrief{
			ID:                  session.AccountID,
			Email:               session.Email,
			Role:                session.Role,
			RoleCategory:        session.RoleCategory,
			Status:              session.Status,
			OnboardingCompleted: session.OnboardingCompleted,
			ProfileImage:        session.ProfileImage,
		},
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, middleware.GetAccountID(r.Context()))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	if _, err := uuid.Parse(id); err != nil {
		core.NotFound(w, "profile")
		return
	}
	h.writeProfile(w, r, id)
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(a))
}
