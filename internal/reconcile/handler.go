// AngelaMos | 2026
// handler.go

package reconcile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

type SyncRequest struct {
	AccountID string `json:"account_id" validate:"required_without=PostID,excluded_with=PostID"`
	PostID    string `json:"post_id"`
	JobID     string `json:"job_id"     validate:"max=128"`
}

type SyncResponse struct {
	Phase      media.Phase `json:"phase"`
	PlaybackID string      `json:"playback_id,omitempty"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	protected func(http.Handler) http.Handler,
) {
	r.Route("/media/video", func(r chi.Router) {
		r.Use(protected)
		r.Post("/sync", h.Sync)
	})
}

// Sync is the page-load catch-up: the owner, or an admin, asks whether the
// record's reel finished transcoding.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.ValidationDetails(err))
		return
	}

	target := Target{OwnerType: media.OwnerAccount, OwnerID: req.AccountID, JobID: req.JobID}
	if req.PostID != "" {
		target = Target{OwnerType: media.OwnerPost, OwnerID: req.PostID, JobID: req.JobID}
	}

	res, err := h.service.Reconcile(r.Context(), ActorFrom(r), target)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.OK(w, SyncResponse{Phase: res.Phase, PlaybackID: res.PlaybackID})
}

func ActorFrom(r *http.Request) Actor {
	s := middleware.GetSession(r.Context())
	if s == nil {
		return Actor{}
	}
	return Actor{AccountID: s.AccountID, IsAdmin: s.IsAdmin()}
}

func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSuperseded):
		core.Conflict(w, "video upload was superseded by a newer one", "VIDEO_SUPERSEDED")
	case errors.Is(err, ErrNoVideo):
		core.NotFound(w, "video")
	case errors.Is(err, ErrUnknownOwner):
		core.BadRequest(w, "unknown video owner")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "record")
	case errors.Is(err, media.ErrUploadFailed):
		core.JSONError(w, core.UpstreamError("video provider unavailable", err))
	default:
		core.InternalServerError(w, err)
	}
}
