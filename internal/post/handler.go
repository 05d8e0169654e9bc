// AngelaMos | 2026
// handler.go

package post

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

const multipartMemory = 8 << 20

type Handler struct {
	service        *Service
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		validator:      core.NewValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts /posts. Publishing needs an approved account.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	protected func(http.Handler) http.Handler,
) {
	r.Route("/posts", func(r chi.Router) {
		r.Use(protected)

		r.With(middleware.RequireApproved).Post("/", h.Create)
		r.Get("/mine", h.Mine)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeTooLarge(w)
			return
		}
		core.BadRequest(w, "invalid multipart body")
		return
	}

	req := CreateRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.ValidationDetails(err))
		return
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		core.UnprocessableEntity(w, map[string]string{"file": "is required"})
		return
	}
	defer f.Close() //nolint:errcheck // request scoped temp file

	p, err := h.service.Create(r.Context(), middleware.GetAccountID(r.Context()), req, media.File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        f,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedMedia):
			core.UnprocessableEntity(w, map[string]string{"file": "must be an image or a video"})
		case errors.Is(err, core.ErrPayloadTooBig):
			writeTooLarge(w)
		default:
			media.WriteError(w, err)
		}
		return
	}

	core.Created(w, ToPostResponse(p))
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.Mine(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToPostResponseList(posts))
}

func writeTooLarge(w http.ResponseWriter) {
	core.JSONError(w, core.NewAppError(
		core.ErrPayloadTooBig,
		"upload is too large",
		http.StatusRequestEntityTooLarge,
		"PAYLOAD_TOO_LARGE",
	))
}
