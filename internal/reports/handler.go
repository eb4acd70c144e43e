package reports

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eashaop2023/admineashaop/internal/middleware"
	"github.com/eashaop2023/admineashaop/internal/transport"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	year := h.service.CurrentYear()
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"year": "numeric"})
			return
		}
		year = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	summary, err := h.service.Dashboard(ctx, year)
	if err != nil {
		if errors.Is(err, ErrInvalidYear) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"year": "range"})
			return
		}
		log.Error("dashboard summary: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("dashboard summary: ok", slog.Int("year", year))
	transport.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Billing(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	q := r.URL.Query()
	filter := BillingFilter{
		Status: q.Get("status"),
		Range:  q.Get("range"),
		Query:  q.Get("q"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	summary, err := h.service.Billing(ctx, filter)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
		case errors.Is(err, ErrInvalidRange):
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"range": "oneof"})
		default:
			log.Error("billing summary: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("billing summary: ok", slog.Int("count", summary.Count))
	transport.WriteJSON(w, http.StatusOK, summary)
}
