package admins

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eashaop2023/admineashaop/internal/httpx"
	"github.com/eashaop2023/admineashaop/internal/middleware"
	"github.com/eashaop2023/admineashaop/internal/transport"
	"github.com/eashaop2023/admineashaop/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	var req RegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin register: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	admin, err := h.service.Register(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			log.Warn("admin register: duplicate email")
			transport.WriteError(w, http.StatusConflict, "admin already exists", map[string]string{"email": "unique"})
			return
		}
		log.Error("admin register: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin register: ok", slog.String("admin_id", admin.ID.Hex()))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Admin registered successfully",
		"admin":   profileOf(admin),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			log.Warn("admin login: invalid credentials")
			transport.WriteError(w, http.StatusUnauthorized, "invalid email or password", nil)
		case errors.Is(err, ErrNotConfigured):
			transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		default:
			log.Error("admin login: server error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "server error", nil)
		}
		return
	}

	log.Info("admin login: ok", slog.String("admin_id", result.Admin.ID.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Login successful",
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"admin":     profileOf(result.Admin),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	token, err := httpx.BearerToken(r)
	if err != nil {
		transport.WriteError(w, http.StatusUnauthorized, "not authorized, no token", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Logout(ctx, token); err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			log.Warn("admin logout: invalid token")
			transport.WriteError(w, http.StatusUnauthorized, "not authorized, token failed", nil)
		case errors.Is(err, ErrNotConfigured):
			transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		default:
			log.Error("admin logout: blacklist error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "server error", nil)
		}
		return
	}

	log.Info("admin logout: ok")
	transport.WriteMessage(w, http.StatusOK, "Logged out successfully")
}
