package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eashaop2023/admineashaop/internal/httpx"
	"github.com/eashaop2023/admineashaop/internal/middleware"
	"github.com/eashaop2023/admineashaop/internal/models"
	"github.com/eashaop2023/admineashaop/internal/transport"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, r.URL.Query().Get("phone"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidPhone) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"phone": "indianphone"})
			return
		}
		log.Error("user list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("user list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalUsers": total,
		"users":      items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("user get: invalid id")
		transport.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("user get: not found", slog.String("user_id", id.Hex()))
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("user get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("user get: ok", slog.String("user_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("user delete: invalid id")
		transport.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("user delete: not found", slog.String("user_id", id.Hex()))
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("user delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("user delete: ok", slog.String("user_id", id.Hex()))
	transport.WriteMessage(w, http.StatusOK, "User deleted successfully")
}
