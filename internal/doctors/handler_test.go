package doctors

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eashaop2023/admineashaop/internal/auth"
	"github.com/eashaop2023/admineashaop/internal/config"
	"github.com/eashaop2023/admineashaop/internal/middleware"
	"github.com/eashaop2023/admineashaop/internal/models"
	"github.com/eashaop2023/admineashaop/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestRouter(svc *Service, adminID primitive.ObjectID) http.Handler {
	h := NewHandler(svc, validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/doctor/verify-setup-token", h.VerifySetupToken)
	r.Post("/doctor/setup-password", h.SetupPassword)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims := &auth.Claims{Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: adminID.Hex()}}
				next.ServeHTTP(w, r.WithContext(middleware.WithAdmin(r.Context(), claims)))
			})
		})
		r.Get("/doctors", h.List)
		r.Get("/doctors/{id}", h.Get)
		r.Delete("/doctors/{id}", h.Delete)
		r.Post("/doctors/{id}/verify", h.Verify)
		r.Get("/verified-doctors", h.ListVerified)
		r.Post("/doctor/{doctorId}/review", h.Review)
	})
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec, payload
}

func TestHandlerListAndGet(t *testing.T) {
	doc := pendingDoctor()
	svc := newTestService(newFakeRepo(doc), &fakeNotifier{}, config.OnboardingToken)
	router := newTestRouter(svc, primitive.NewObjectID())

	rec, payload := do(t, router, http.MethodGet, "/doctors", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, payload["totalDoctors"])
	assert.Len(t, payload["doctors"], 1)

	rec, payload = do(t, router, http.MethodGet, "/doctors?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid query", payload["message"])

	rec, payload = do(t, router, http.MethodGet, "/doctors/"+doc.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	got := payload["doctor"].(map[string]interface{})
	assert.Equal(t, "Asha Rao", got["name"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "setupToken")

	rec, payload = do(t, router, http.MethodGet, "/doctors/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", payload["message"])

	rec, payload = do(t, router, http.MethodGet, "/doctors/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "doctor not found", payload["message"])
}

func TestHandlerListEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{}, config.OnboardingToken)
	rec, payload := do(t, newTestRouter(svc, primitive.NewObjectID()), http.MethodGet, "/doctors", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, payload["totalDoctors"])
	assert.Equal(t, []interface{}{}, payload["doctors"])
}

func TestHandlerVerifyFlow(t *testing.T) {
	doc := pendingDoctor()
	repo := newFakeRepo(doc)
	svc := newTestService(repo, &fakeNotifier{queued: true}, config.OnboardingToken)
	router := newTestRouter(svc, primitive.NewObjectID())

	rec, payload := do(t, router, http.MethodPost, "/doctors/"+doc.ID.Hex()+"/verify", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Contains(t, payload["message"], "setup link")

	rec, payload = do(t, router, http.MethodPost, "/doctors/"+doc.ID.Hex()+"/verify", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Doctor is already verified and approved.", payload["message"])

	token := repo.doctors[doc.ID].SetupToken
	rec, payload = do(t, router, http.MethodGet, "/doctor/verify-setup-token?token="+token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"name": "Asha Rao", "email": "asha@example.com"}, payload["doctor"])

	rec, payload = do(t, router, http.MethodPost, "/doctor/setup-password", `{"token":"`+token+`","password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation error", payload["message"])

	long := strings.Repeat("a", 80)
	rec, payload = do(t, router, http.MethodPost, "/doctor/setup-password", `{"token":"`+token+`","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"Password": "max"}, payload["details"])

	rec, payload = do(t, router, http.MethodPost, "/doctor/setup-password", `{"token":"`+token+`","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])

	rec, payload = do(t, router, http.MethodPost, "/doctor/setup-password", `{"token":"`+token+`","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid or expired token", payload["message"])

	rec, payload = do(t, router, http.MethodGet, "/verified-doctors", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, payload["count"])
	mirror := payload["data"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, mirror, "password")
}

func TestHandlerVerifyCredentialsMode(t *testing.T) {
	doc := pendingDoctor()
	svc := newTestService(newFakeRepo(doc), &fakeNotifier{queued: true}, config.OnboardingCredentials)

	rec, payload := do(t, newTestRouter(svc, primitive.NewObjectID()), http.MethodPost, "/doctors/"+doc.ID.Hex()+"/verify", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	creds := payload["loginCredentials"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", creds["username"])
	assert.NotEmpty(t, creds["password"])
}

func TestHandlerSetupTokenMissing(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{}, config.OnboardingToken)
	rec, payload := do(t, newTestRouter(svc, primitive.NewObjectID()), http.MethodGet, "/doctor/verify-setup-token", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid or expired token", payload["message"])
}

func TestHandlerReview(t *testing.T) {
	doc := pendingDoctor()
	adminID := primitive.NewObjectID()
	ratings := &fakeRatings{admins: map[primitive.ObjectID]models.Admin{adminID: {ID: adminID}}}
	svc := NewService(newFakeRepo(doc), ratings, nil, nil, Options{})
	router := newTestRouter(svc, adminID)

	rec, payload := do(t, router, http.MethodPost, "/doctor/"+doc.ID.Hex()+"/review", `{"rating":4,"comment":"kind"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Review added successfully", payload["message"])
	assert.EqualValues(t, 4, payload["doctorAverage"])
	assert.Len(t, payload["doctorReviews"], 1)
	assert.Len(t, payload["adminRatings"], 1)

	rec, _ = do(t, router, http.MethodPost, "/doctor/"+doc.ID.Hex()+"/review", `{"rating":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/doctor/"+primitive.NewObjectID().Hex()+"/review", `{"rating":3}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	doc := pendingDoctor()
	svc := newTestService(newFakeRepo(doc), &fakeNotifier{}, config.OnboardingToken)
	router := newTestRouter(svc, primitive.NewObjectID())

	rec, payload := do(t, router, http.MethodDelete, "/doctors/"+doc.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Doctor deleted successfully", payload["message"])

	rec, _ = do(t, router, http.MethodDelete, "/doctors/"+doc.ID.Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

