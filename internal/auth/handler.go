// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
)

type Handler struct {
	service   *Service
	cookies   *CookieWriter
	validator *validator.Validate
}

func NewHandler(service *Service, cookies *CookieWriter) *Handler {
	return &Handler{
		service:   service,
		cookies:   cookies,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /auth. limiter guards the credential endpoints and
// may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter)
			}
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.With(authenticator).Post("/logout", h.Logout)
		r.With(middleware.OptionalAuth(h.service, h.cookies.Name())).
			Get("/check", h.Check)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.ValidationDetails(err))
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("invalid email or password"),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.Set(w, result.Token.Token, result.Token.ExpiresAt)
	core.OK(w, result.Response)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.ValidationDetails(err))
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrRegistrationFailed) {
			core.BadRequest(w, "unable to create account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.Set(w, result.Token.Token, result.Token.ExpiresAt)
	core.Created(w, result.Response)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.Logout(r.Context(), session); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.cookies.Clear(w)
	core.NoContent(w)
}

// Check answers from the token alone; it never reads the account row.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.JSON(w, http.StatusUnauthorized, core.SuccessResponse{
			Success: false,
			Data:    CheckResponse{Authenticated: false},
		})
		return
	}

	core.OK(w, CheckResponse{
		Authenticated: true,
		User:          toSessionUser(session),
	})
}
