package appointments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eashaop2023/admineashaop/internal/httpx"
	"github.com/eashaop2023/admineashaop/internal/middleware"
	"github.com/eashaop2023/admineashaop/internal/transport"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	h.writeList(w, r, "appointment list", items, err)
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "appointment by user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ByUser(ctx, id)
	h.writeList(w, r, "appointment by user", items, err)
}

func (h *Handler) ByDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "appointment by doctor")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ByDoctor(ctx, id)
	h.writeList(w, r, "appointment by doctor", items, err)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, "appointment get")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("appointment get: not found", slog.String("appointment_id", id.Hex()))
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointment get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("appointment get: ok", slog.String("appointment_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": item,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, "appointment delete")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("appointment delete: not found", slog.String("appointment_id", id.Hex()))
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointment delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("appointment delete: ok", slog.String("appointment_id", id.Hex()))
	transport.WriteMessage(w, http.StatusOK, "Appointment deleted successfully")
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, op string, items []View, err error) {
	log := middleware.RequestLogger(h.log, r)
	if err != nil {
		if errors.Is(err, ErrNoAppointments) {
			log.Info(op + ": empty")
			transport.WriteError(w, http.StatusNotFound, "no appointments found", nil)
			return
		}
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info(op+": ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"totalAppointments": len(items),
		"appointments":      items,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, op string) (primitive.ObjectID, bool) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RequestLogger(h.log, r).Warn(op + ": invalid id")
		transport.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}
