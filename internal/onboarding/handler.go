// AngelaMos | 2026
// handler.go

package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

const multipartMemory = 8 << 20

type UsernameCheckRequest struct {
	Username string `json:"username" validate:"max=64"`
	Seq      uint64 `json:"seq"      validate:"required,min=1"`
}

type StateResponse struct {
	Wizard   *Wizard      `json:"wizard"`
	Taxonomy []RoleSkills `json:"taxonomy"`
}

type CommitResponse struct {
	Profile account.ProfileResponse `json:"profile"`
}

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	protected func(http.Handler) http.Handler,
) {
	r.Route("/onboarding", func(r chi.Router) {
		r.Use(protected)

		r.Get("/", h.State)
		r.Put("/step", h.UpdateStep)
		r.Post("/continue", h.Continue)
		r.Post("/back", h.Back)
		r.Post("/username/check", h.CheckUsername)
		r.Post("/commit", h.Commit)
	})
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	wz, err := h.service.State(r.Context(), middleware.GetAccountID(r.Context()))
	h.writeWizard(w, wz, err)
}

func (h *Handler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	var req StepUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	wz, err := h.service.UpdateStep(r.Context(), middleware.GetAccountID(r.Context()), req)
	if errors.Is(err, ErrInvalidStep) {
		core.BadRequest(w, fmt.Sprintf("fields for step %d are required", wz.Step))
		return
	}
	h.writeWizard(w, wz, err)
}

func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	wz, err := h.service.Continue(r.Context(), middleware.GetAccountID(r.Context()))
	h.writeWizard(w, wz, err)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	wz, err := h.service.Back(r.Context(), middleware.GetAccountID(r.Context()))
	h.writeWizard(w, wz, err)
}

func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req UsernameCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.ValidationDetails(err))
		return
	}

	res, err := h.service.CheckUsername(
		r.Context(),
		middleware.GetAccountID(r.Context()),
		req.Username,
		req.Seq,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, res)
}

func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	up, closeFiles, err := readUploads(r)
	defer closeFiles()
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			core.JSONError(w, core.NewAppError(
				core.ErrPayloadTooBig,
				"upload is too large",
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
			))
			return
		}
		core.BadRequest(w, "invalid multipart body")
		return
	}

	a, wz, err := h.service.Commit(r.Context(), middleware.GetAccountID(r.Context()), up)
	if err != nil {
		if errors.Is(err, ErrInvalidStep) && wz != nil {
			core.UnprocessableEntity(w, wz.Errors)
			return
		}
		writeError(w, err)
		return
	}

	core.OK(w, CommitResponse{Profile: account.ToProfileResponse(a)})
}

func (h *Handler) writeWizard(w http.ResponseWriter, wz *Wizard, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	core.OK(w, StateResponse{Wizard: wz, Taxonomy: Taxonomy()})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotReady):
		core.Conflict(w, "onboarding is not ready to commit", "ONBOARDING_NOT_READY")
	case errors.Is(err, account.ErrInvalidTransition):
		core.Conflict(w, "account cannot submit a profile", "INVALID_TRANSITION")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("username"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "account")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "video upload belongs to another owner")
	case errors.Is(err, media.ErrFolderNotAllowed),
		errors.Is(err, media.ErrUploadFailed):
		media.WriteError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}

func readUploads(r *http.Request) (Uploads, func(), error) {
	var up Uploads
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close() //nolint:errcheck // request scoped temp files
		}
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return up, closeAll, err
	}

	for _, field := range []string{"avatar", "video"} {
		f, hdr, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return up, closeAll, err
		}
		opened = append(opened, f)

		file := &media.File{
			Name:        hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Body:        f,
		}
		if field == "avatar" {
			up.Avatar = file
		} else {
			up.Video = file
		}
	}

	up.VideoUploadID = r.FormValue("video_upload_id")
	return up, closeAll, nil
}
