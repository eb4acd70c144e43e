package doctors

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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		log.Error("doctor list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("doctor list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalDoctors": total,
		"doctors":      items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	doctor, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "doctor get", err)
		return
	}

	log.Info("doctor get: ok", slog.String("doctor_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"doctor": doctor})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(w, log, "doctor delete", err)
		return
	}

	log.Info("doctor delete: ok", slog.String("doctor_id", id.Hex()))
	transport.WriteMessage(w, http.StatusOK, "Doctor deleted successfully")
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	result, err := h.service.InitiateVerification(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "doctor verify", err)
		return
	}

	if result.AlreadyApproved {
		log.Info("doctor verify: already approved", slog.String("doctor_id", id.Hex()))
		transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Doctor is already verified and approved.",
		})
		return
	}

	if result.NotifyErr != nil {
		log.Warn("doctor verify: email render failed",
			slog.String("doctor_id", id.Hex()),
			slog.String("error", result.NotifyErr.Error()),
		)
	} else if !result.EmailQueued {
		log.Warn("doctor verify: email not queued", slog.String("doctor_id", id.Hex()))
	}

	log.Info("doctor verify: ok", slog.String("doctor_id", id.Hex()), slog.Bool("email_queued", result.EmailQueued))
	if result.Credentials != nil {
		transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":          true,
			"message":          "Doctor verified and approved. Login credentials have been sent to the doctor's email.",
			"loginCredentials": result.Credentials,
		})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Doctor verified and approved. A password setup link has been sent to the doctor's email.",
	})
}

func (h *Handler) ListVerified(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListVerified(ctx)
	if err != nil {
		log.Error("verified doctor list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("verified doctor list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func (h *Handler) VerifySetupToken(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	identity, err := h.service.VerifySetupToken(ctx, r.URL.Query().Get("token"))
	if err != nil {
		h.writeServiceError(w, log, "doctor setup token", err)
		return
	}

	log.Info("doctor setup token: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"doctor":  identity,
	})
}

func (h *Handler) SetupPassword(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)

	var req SetupPasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("doctor setup password: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("doctor setup password: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	doctor, err := h.service.SetPassword(ctx, req.Token, req.Password)
	if err != nil {
		h.writeServiceError(w, log, "doctor setup password", err)
		return
	}

	log.Info("doctor setup password: ok", slog.String("doctor_id", doctor.ID.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password set successfully. You can now log in.",
	})
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	log := middleware.RequestLogger(h.log, r)
	doctorID, ok := h.pathID(w, r, "doctorId")
	if !ok {
		return
	}

	claims, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "not authorized", nil)
		return
	}
	adminID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		transport.WriteError(w, http.StatusUnauthorized, "not authorized, token failed", nil)
		return
	}

	var req ReviewRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("doctor review: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("doctor review: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	result, err := h.service.AddReview(ctx, doctorID, adminID, req.Rating, req.Comment)
	if err != nil {
		h.writeServiceError(w, log, "doctor review", err)
		return
	}

	log.Info("doctor review: ok",
		slog.String("doctor_id", doctorID.Hex()),
		slog.String("admin_id", adminID.Hex()),
		slog.Int("rating", req.Rating),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Review added successfully",
		"doctorAverage": result.Doctor.AverageRating,
		"doctorReviews": result.Doctor.Reviews,
		"adminRatings":  result.Admin.GivenRatings,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, param))
	if err != nil {
		middleware.RequestLogger(h.log, r).Warn("doctor request: invalid id", slog.String(param, chi.URLParam(r, param)))
		transport.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "doctor not found", nil)
	case errors.Is(err, ErrAdminNotFound):
		log.Warn(op + ": admin not found")
		transport.WriteError(w, http.StatusNotFound, "admin not found", nil)
	case errors.Is(err, ErrInvalidToken):
		log.Warn(op + ": invalid token")
		transport.WriteError(w, http.StatusBadRequest, "invalid or expired token", nil)
	case errors.Is(err, ErrWeakPassword):
		transport.WriteError(w, http.StatusBadRequest, "password must be at least 6 characters", map[string]string{"password": "min"})
	case errors.Is(err, ErrLongPassword):
		transport.WriteError(w, http.StatusBadRequest, "password must be at most 72 characters", map[string]string{"password": "max"})
	case errors.Is(err, ErrInvalidRating):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"rating": "range"})
	case errors.Is(err, ErrMissingContact):
		log.Warn(op + ": missing contact")
		transport.WriteError(w, http.StatusBadRequest, "doctor has no email or mobile to use as username", nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
