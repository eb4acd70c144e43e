package doctors

import (
	"context"
	"sync"
	"time"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	mu         sync.Mutex
	doctors    map[primitive.ObjectID]models.Doctor
	verified   map[primitive.ObjectID]models.VerifiedDoctor
	failUpsert error
}

func newFakeRepo(docs ...models.Doctor) *fakeRepo {
	repo := &fakeRepo{
		doctors:  map[primitive.ObjectID]models.Doctor{},
		verified: map[primitive.ObjectID]models.VerifiedDoctor{},
	}
	for _, d := range docs {
		repo.doctors[d.ID] = d
	}
	return repo
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]models.Doctor, 0)
	for _, d := range f.doctors {
		if filter.Status == StatusPending && d.IsApproved {
			continue
		}
		if filter.Status == StatusVerified && !d.IsApproved {
			continue
		}
		items = append(items, d)
	}
	return items, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := f.List(ctx, filter)
	return int64(len(items)), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return models.Doctor{}, mongo.ErrNoDocuments
	}
	return d, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[id]; !ok {
		return false, nil
	}
	delete(f.doctors, id)
	return true, nil
}

func (f *fakeRepo) Approve(ctx context.Context, id primitive.ObjectID, approval Approval) (models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok || d.IsApproved {
		return models.Doctor{}, mongo.ErrNoDocuments
	}
	d.IsApproved = true
	d.IsVerified = true
	d.Username = approval.Username
	if approval.SetupToken != "" {
		expires := approval.SetupTokenExpires
		d.SetupToken = approval.SetupToken
		d.SetupTokenExpires = &expires
	}
	if approval.PasswordHash != "" {
		d.Password = approval.PasswordHash
	}
	f.doctors[id] = d
	return d, nil
}

func (f *fakeRepo) findToken(token string, now time.Time) (models.Doctor, bool) {
	for _, d := range f.doctors {
		if d.SetupToken == token && d.SetupTokenExpires != nil && d.SetupTokenExpires.After(now) {
			return d, true
		}
	}
	return models.Doctor{}, false
}

func (f *fakeRepo) FindBySetupToken(ctx context.Context, token string, now time.Time) (models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.findToken(token, now)
	if !ok {
		return models.Doctor{}, mongo.ErrNoDocuments
	}
	return d, nil
}

func (f *fakeRepo) ConsumeSetupToken(ctx context.Context, token string, now time.Time, passwordHash string) (models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.findToken(token, now)
	if !ok {
		return models.Doctor{}, mongo.ErrNoDocuments
	}
	d.Password = passwordHash
	d.SetupToken = ""
	d.SetupTokenExpires = nil
	f.doctors[d.ID] = d
	return d, nil
}

func (f *fakeRepo) AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return models.Doctor{}, mongo.ErrNoDocuments
	}
	d.Reviews = append(d.Reviews, review)
	sum := 0
	for _, r := range d.Reviews {
		sum += r.Rating
	}
	d.AverageRating = float64(sum) / float64(len(d.Reviews))
	f.doctors[id] = d
	return d, nil
}

func (f *fakeRepo) UpsertVerified(ctx context.Context, mirror models.VerifiedDoctor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert != nil {
		return f.failUpsert
	}
	if existing, ok := f.verified[mirror.DoctorID]; ok {
		existing.Password = mirror.Password
		f.verified[mirror.DoctorID] = existing
		return nil
	}
	f.verified[mirror.DoctorID] = mirror
	return nil
}

func (f *fakeRepo) ListVerified(ctx context.Context) ([]models.VerifiedDoctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]models.VerifiedDoctor, 0, len(f.verified))
	for _, v := range f.verified {
		items = append(items, v)
	}
	return items, nil
}

type fakeRatings struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]models.Admin
}

func (f *fakeRatings) AddRating(ctx context.Context, adminID primitive.ObjectID, rating models.Rating) (models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin, ok := f.admins[adminID]
	if !ok {
		return models.Admin{}, mongo.ErrNoDocuments
	}
	admin.GivenRatings = append(admin.GivenRatings, rating)
	f.admins[adminID] = admin
	return admin, nil
}

type sentMail struct {
	doctorID primitive.ObjectID
	token    string
	username string
	password string
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentMail
	queued bool
}

func (f *fakeNotifier) SendSetupLink(doctor models.Doctor, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{doctorID: doctor.ID, token: token})
	return f.queued, nil
}

func (f *fakeNotifier) SendCredentials(doctor models.Doctor, username, password string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{doctorID: doctor.ID, username: username, password: password})
	return f.queued, nil
}

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return c.err
}
