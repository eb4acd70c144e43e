package users

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/eashaop2023/admineashaop/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	users []models.User
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	items := make([]models.User, 0)
	for _, u := range f.users {
		if filter.Phone != "" && u.PhoneNumber != filter.Phone {
			continue
		}
		items = append(items, u)
	}
	return items, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := f.List(ctx, filter)
	return int64(len(items)), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return c.err
}

func newRouter(svc *Service) http.Handler {
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/users", h.List)
	r.Get("/users/{id}", h.Get)
	r.Delete("/users/{id}", h.Delete)
	return r
}

func get(t *testing.T, router http.Handler, method, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec.Code, payload
}

func sampleUsers() []models.User {
	return []models.User{
		{ID: primitive.NewObjectID(), FullName: "Ravi Kumar", PhoneNumber: "+919876543210"},
		{ID: primitive.NewObjectID(), FullName: "Meena Iyer", PhoneNumber: "+919123456789"},
	}
}

func TestListUsers(t *testing.T) {
	router := newRouter(NewService(&fakeRepo{users: sampleUsers()}))

	code, payload := get(t, router, http.MethodGet, "/users")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, payload["totalUsers"])
	assert.Len(t, payload["users"], 2)

	code, payload = get(t, router, http.MethodGet, "/users?phone="+url.QueryEscape("98765 43210"))
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, payload["totalUsers"])

	code, payload = get(t, router, http.MethodGet, "/users?phone=12345")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid query", payload["message"])
}

func TestListUsersEmpty(t *testing.T) {
	code, payload := get(t, newRouter(NewService(&fakeRepo{})), http.MethodGet, "/users")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, payload["totalUsers"])
	assert.Equal(t, []interface{}{}, payload["users"])
}

func TestGetAndDeleteUser(t *testing.T) {
	users := sampleUsers()
	svc := NewService(&fakeRepo{users: users})
	inv := &countingInvalidator{}
	svc.SetInvalidator(inv, nil)
	router := newRouter(svc)
	id := users[0].ID.Hex()

	code, payload := get(t, router, http.MethodGet, "/users/"+id)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ravi Kumar", payload["user"].(map[string]interface{})["full_name"])

	code, payload = get(t, router, http.MethodGet, "/users/xyz")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid id", payload["message"])

	code, _ = get(t, router, http.MethodDelete, "/users/"+id)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, inv.calls)

	code, payload = get(t, router, http.MethodGet, "/users/"+id)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "user not found", payload["message"])

	code, _ = get(t, router, http.MethodDelete, "/users/"+id)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteUserLogsInvalidationFailure(t *testing.T) {
	users := sampleUsers()
	svc := NewService(&fakeRepo{users: users})
	var buf bytes.Buffer
	svc.SetInvalidator(&countingInvalidator{err: errors.New("redis down")}, slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, svc.Delete(context.Background(), users[0].ID))
	assert.Contains(t, buf.String(), "user cache invalidation: failed")
	assert.Contains(t, buf.String(), "redis down")
}
