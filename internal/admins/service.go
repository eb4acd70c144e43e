package admins

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eashaop2023/admineashaop/internal/auth"
	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrDuplicateEmail     = errors.New("admin already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotConfigured      = errors.New("admin auth not configured")
)

type Revoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

type Service struct {
	repo      Repository
	tokens    *auth.Manager
	blacklist Revoker
}

func NewService(repo Repository, tokens *auth.Manager, blacklist Revoker) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		blacklist: blacklist,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (models.Admin, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return models.Admin{}, ErrDuplicateEmail
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Admin{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.Admin{}, err
	}

	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Username:     strings.TrimSpace(req.Username),
		MobileNo:     strings.TrimSpace(req.MobileNo),
		Email:        email,
		Password:     hash,
		GivenRatings: []models.Rating{},
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if s.tokens == nil {
		return LoginResult{}, ErrNotConfigured
	}
	admin, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := auth.ComparePassword(admin.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.NewAccessToken(admin.ID.Hex(), models.RoleAdmin)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Admin: admin, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.tokens == nil || s.blacklist == nil {
		return ErrNotConfigured
	}
	claims, err := s.tokens.Parse(token)
	if err != nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return s.blacklist.Revoke(ctx, token, claims.ExpiresAt.Time)
}

func (s *Service) AddRating(ctx context.Context, adminID primitive.ObjectID, rating models.Rating) (models.Admin, error) {
	return s.repo.AddRating(ctx, adminID, rating)
}

// Ensure creates or refreshes an admin account, used to bootstrap the first login.
func (s *Service) Ensure(ctx context.Context, req RegisterRequest) (bool, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return false, err
	}
	return s.repo.UpsertByEmail(ctx, models.Admin{
		ID:       primitive.NewObjectID(),
		Username: strings.TrimSpace(req.Username),
		MobileNo: strings.TrimSpace(req.MobileNo),
		Email:    normalizeEmail(req.Email),
		Password: hash,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
