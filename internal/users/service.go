package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("user not found")

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

// List returns users, optionally only the one registered with phone. The
// phone is normalized first, so "98765 43210" and "+919876543210" match.
func (s *Service) List(ctx context.Context, phone string) ([]models.User, int64, error) {
	filter := ListFilter{}
	if phone = strings.TrimSpace(phone); phone != "" {
		normalized, err := models.NormalizePhone(phone)
		if err != nil {
			return nil, 0, err
		}
		filter.Phone = normalized
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil && s.log != nil {
		s.log.Warn("user cache invalidation: failed", slog.String("error", err.Error()))
	}
}
