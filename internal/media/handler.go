// AngelaMos | 2026
// handler.go

package media

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

type SignImageRequest struct {
	Folder string `json:"folder" validate:"omitempty,max=64"`
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
	r.Route("/uploads", func(r chi.Router) {
		r.Use(protected)

		r.Post("/image-signature", h.SignImage)
		r.Post("/video", h.CreateVideoUpload)
	})
}

func (h *Handler) SignImage(w http.ResponseWriter, r *http.Request) {
	var req SignImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil &&
		!errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ticket, err := h.service.SignImage(r.Context(), req.Folder)
	if err != nil {
		if errors.Is(err, ErrFolderNotAllowed) {
			core.BadRequest(w, "upload folder is not allowed")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ticket)
}

func (h *Handler) CreateVideoUpload(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	if accountID == "" {
		core.Unauthorized(w, "")
		return
	}

	ticket, err := h.service.IssueVideoTicket(r.Context(), OwnerAccount, accountID)
	if err != nil {
		WriteError(w, err)
		return
	}

	core.Created(w, ticket)
}

// WriteError maps provider failures onto the upload error response.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrFolderNotAllowed):
		core.BadRequest(w, "upload folder is not allowed")
	case errors.Is(err, ErrUploadFailed):
		core.JSONError(w, core.UpstreamError("media upload failed", err))
	default:
		core.InternalServerError(w, err)
	}
}
