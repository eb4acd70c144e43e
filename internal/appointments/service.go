package appointments

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrNoAppointments = errors.New("no appointments found")
)

// Invalidator drops report caches built from appointments.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo        Repository
	invalidator Invalidator
	log         *slog.Logger
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SetInvalidator(inv Invalidator, log *slog.Logger) {
	s.invalidator = inv
	s.log = log
}

// All returns every appointment, newest first, possibly none.
func (s *Service) All(ctx context.Context) ([]View, error) {
	return s.repo.Find(ctx, bson.M{})
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	return s.nonEmpty(s.repo.Find(ctx, bson.M{}))
}

func (s *Service) ByUser(ctx context.Context, userID primitive.ObjectID) ([]View, error) {
	return s.nonEmpty(s.repo.Find(ctx, bson.M{"userId": userID}))
}

func (s *Service) ByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]View, error) {
	return s.nonEmpty(s.repo.Find(ctx, bson.M{"doctorId": doctorID}))
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (View, error) {
	items, err := s.repo.Find(ctx, byID(id))
	if err != nil {
		return View{}, err
	}
	if len(items) == 0 {
		return View{}, ErrNotFound
	}
	return items[0], nil
}

// Delete removes the appointment only; the patient and doctor stay untouched.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil && s.log != nil {
			s.log.Warn("appointment cache invalidation: failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *Service) nonEmpty(items []View, err error) ([]View, error) {
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoAppointments
	}
	return items, nil
}
