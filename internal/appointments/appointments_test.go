package appointments

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepo struct {
	items []View
}

func (f *fakeRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	for i, v := range f.items {
		if v.ID == id {
			f.items = append(f.items[:i:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

func (f *fakeRepo) Find(ctx context.Context, match bson.M) ([]View, error) {
	out := make([]View, 0)
	for _, v := range f.items {
		if id, ok := match["_id"]; ok && v.ID != id {
			continue
		}
		if id, ok := match["userId"]; ok && (v.User == nil || v.User.ID != id) {
			continue
		}
		if id, ok := match["doctorId"]; ok && (v.Doctor == nil || v.Doctor.ID != id) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func sampleViews() []View {
	user := &UserSummary{ID: primitive.NewObjectID(), FullName: "Ravi Kumar", PhoneNumber: "+919876543210"}
	doctor := &DoctorSummary{ID: primitive.NewObjectID(), Name: "Asha Rao", Speciality: "Cardiology", Email: "asha@example.com"}
	return []View{
		{ID: primitive.NewObjectID(), User: user, Doctor: doctor, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Status: "booked", Amount: 500},
		{ID: primitive.NewObjectID(), User: user, Doctor: nil, Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Status: "pending", Amount: 300},
	}
}

func newRouter(items []View) http.Handler {
	return newServiceRouter(NewService(&fakeRepo{items: items}))
}

func newServiceRouter(svc *Service) http.Handler {
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/appointments", h.List)
	r.Get("/appointments/{id}", h.Get)
	r.Delete("/appointments/{id}", h.Delete)
	r.Get("/appointments/user/{id}", h.ByUser)
	r.Get("/appointments/doctor/{id}", h.ByDoctor)
	return r
}

func call(t *testing.T, router http.Handler, path string) (int, map[string]interface{}) {
	t.Helper()
	return send(t, router, http.MethodGet, path)
}

func send(t *testing.T, router http.Handler, method, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec.Code, payload
}

func TestListAppointments(t *testing.T) {
	items := sampleViews()
	router := newRouter(items)

	code, payload := call(t, router, "/appointments")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, payload["success"])
	assert.EqualValues(t, 2, payload["totalAppointments"])

	list := payload["appointments"].([]interface{})
	first := list[0].(map[string]interface{})
	assert.Equal(t, "Ravi Kumar", first["userId"].(map[string]interface{})["full_name"])
	assert.Equal(t, "Cardiology", first["doctorId"].(map[string]interface{})["speciality"])
	assert.Nil(t, list[1].(map[string]interface{})["doctorId"])
}

func TestAppointmentsByUserAndDoctor(t *testing.T) {
	items := sampleViews()
	router := newRouter(items)

	code, payload := call(t, router, "/appointments/user/"+items[0].User.ID.Hex())
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, payload["totalAppointments"])

	code, payload = call(t, router, "/appointments/doctor/"+items[0].Doctor.ID.Hex())
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, payload["totalAppointments"])

	code, payload = call(t, router, "/appointments/doctor/"+primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no appointments found", payload["message"])

	code, payload = call(t, router, "/appointments/user/bad")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid id", payload["message"])
}

func TestGetAppointment(t *testing.T) {
	items := sampleViews()
	router := newRouter(items)

	code, payload := call(t, router, "/appointments/"+items[1].ID.Hex())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pending", payload["appointment"].(map[string]interface{})["status"])

	code, _ = call(t, router, "/appointments/"+primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteAppointment(t *testing.T) {
	items := sampleViews()
	svc := NewService(&fakeRepo{items: items})
	inv := &countingInvalidator{}
	svc.SetInvalidator(inv, nil)
	router := newServiceRouter(svc)
	id := items[0].ID.Hex()

	code, payload := send(t, router, http.MethodDelete, "/appointments/"+id)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Appointment deleted successfully", payload["message"])
	assert.Equal(t, 1, inv.calls)

	code, _ = call(t, router, "/appointments/"+id)
	assert.Equal(t, http.StatusNotFound, code)
	code, payload = call(t, router, "/appointments")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, payload["totalAppointments"])

	code, payload = send(t, router, http.MethodDelete, "/appointments/"+id)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "appointment not found", payload["message"])
	assert.Equal(t, 1, inv.calls)

	code, payload = send(t, router, http.MethodDelete, "/appointments/bad")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid id", payload["message"])
}

func TestEmptyAppointmentList(t *testing.T) {
	code, payload := call(t, newRouter(nil), "/appointments")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no appointments found", payload["message"])

	all, err := NewService(&fakeRepo{}).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJoinPipelineProjections(t *testing.T) {
	pipeline := joinPipeline(bson.M{})
	require.Len(t, pipeline, 6)

	raw, err := bson.MarshalExtJSON(bson.D{{Key: "p", Value: pipeline}}, false, false)
	require.NoError(t, err)
	text := string(raw)
	for _, field := range []string{`"full_name":1`, `"phone_number":1`, `"speciality":1`, `"mobile":1`, `"preserveNullAndEmptyArrays":true`} {
		assert.Contains(t, text, field)
	}
	assert.NotContains(t, text, "password")
}

func TestViewNames(t *testing.T) {
	v := View{}
	assert.Empty(t, v.DoctorName())
	assert.Empty(t, v.PatientName())
	v = sampleViews()[0]
	assert.Equal(t, "Asha Rao", v.DoctorName())
	assert.Equal(t, "Ravi Kumar", v.PatientName())
}
