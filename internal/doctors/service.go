package doctors

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/eashaop2023/admineashaop/internal/auth"
	"github.com/eashaop2023/admineashaop/internal/config"
	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound       = errors.New("doctor not found")
	ErrAdminNotFound  = errors.New("admin not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrMissingContact = errors.New("doctor has no email or mobile")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWeakPassword   = errors.New("password too short")
	ErrLongPassword   = errors.New("password too long")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

const generatedPasswordLength = 10

type Notifier interface {
	SendSetupLink(doctor models.Doctor, token string) (bool, error)
	SendCredentials(doctor models.Doctor, username, password string) (bool, error)
}

// RatingRecorder stores the admin side of a review.
type RatingRecorder interface {
	AddRating(ctx context.Context, adminID primitive.ObjectID, rating models.Rating) (models.Admin, error)
}

type Transactor interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Invalidator drops derived data (report caches) after doctor records change.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Options struct {
	OnboardingMode string
	SetupTokenTTL  time.Duration
}

type Service struct {
	repo        Repository
	ratings     RatingRecorder
	notifier    Notifier
	tx          Transactor
	invalidator Invalidator
	log         *slog.Logger
	opts        Options
	now         func() time.Time
}

func NewService(repo Repository, ratings RatingRecorder, notifier Notifier, tx Transactor, opts Options) *Service {
	if opts.OnboardingMode == "" {
		opts.OnboardingMode = config.OnboardingToken
	}
	if opts.SetupTokenTTL <= 0 {
		opts.SetupTokenTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:     repo,
		ratings:  ratings,
		notifier: notifier,
		tx:       tx,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *Service) SetInvalidator(inv Invalidator, log *slog.Logger) {
	s.invalidator = inv
	s.log = log
}

func (s *Service) List(ctx context.Context, status string) ([]models.Doctor, int64, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != StatusPending && status != StatusVerified {
		return nil, 0, ErrInvalidStatus
	}
	filter := ListFilter{Status: status}

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

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Doctor{}, ErrNotFound
		}
		return models.Doctor{}, err
	}
	return doctor, nil
}

// Delete removes the doctor record only. Appointments, reviews and the
// verified mirror that reference it are left in place.
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

func (s *Service) ListVerified(ctx context.Context) ([]models.VerifiedDoctor, error) {
	return s.repo.ListVerified(ctx)
}

// InitiateVerification approves an unverified doctor. In token mode it issues a
// single-use setup token and mails a setup link; in credentials mode it
// generates a password, writes the verified mirror and mails the credentials.
// Calling it again for an approved doctor changes nothing.
func (s *Service) InitiateVerification(ctx context.Context, id primitive.ObjectID) (VerificationResult, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return VerificationResult{}, err
	}
	if doctor.IsApproved {
		return VerificationResult{Doctor: doctor, AlreadyApproved: true}, nil
	}

	username := doctor.LoginUsername()
	if username == "" {
		return VerificationResult{}, ErrMissingContact
	}

	var result VerificationResult
	if s.opts.OnboardingMode == config.OnboardingCredentials {
		result, err = s.approveWithCredentials(ctx, id, username)
	} else {
		result, err = s.approveWithToken(ctx, id, username)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		// approved by a concurrent call between the read and the update
		current, getErr := s.Get(ctx, id)
		if getErr != nil {
			return VerificationResult{}, getErr
		}
		return VerificationResult{Doctor: current, AlreadyApproved: true}, nil
	}
	if err != nil {
		return VerificationResult{}, err
	}

	s.invalidate(ctx)
	return result, nil
}

func (s *Service) approveWithToken(ctx context.Context, id primitive.ObjectID, username string) (VerificationResult, error) {
	token, err := auth.NewSetupToken()
	if err != nil {
		return VerificationResult{}, err
	}

	updated, err := s.repo.Approve(ctx, id, Approval{
		Username:          username,
		SetupToken:        token,
		SetupTokenExpires: s.now().Add(s.opts.SetupTokenTTL),
	})
	if err != nil {
		return VerificationResult{}, err
	}

	result := VerificationResult{Doctor: updated}
	if s.notifier != nil && updated.Email != "" {
		result.EmailQueued, result.NotifyErr = s.notifier.SendSetupLink(updated, token)
	}
	return result, nil
}

func (s *Service) approveWithCredentials(ctx context.Context, id primitive.ObjectID, username string) (VerificationResult, error) {
	password, err := auth.RandomPassword(generatedPasswordLength)
	if err != nil {
		return VerificationResult{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return VerificationResult{}, err
	}

	var updated models.Doctor
	err = s.runTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.Approve(ctx, id, Approval{Username: username, PasswordHash: hash})
		if err != nil {
			return err
		}
		return s.repo.UpsertVerified(ctx, mirrorOf(updated, hash, s.now()))
	})
	if err != nil {
		return VerificationResult{}, err
	}

	result := VerificationResult{
		Doctor:      updated,
		Credentials: &Credentials{Username: username, Password: password},
	}
	if s.notifier != nil && updated.Email != "" {
		result.EmailQueued, result.NotifyErr = s.notifier.SendCredentials(updated, username, password)
	}
	return result, nil
}

func (s *Service) VerifySetupToken(ctx context.Context, token string) (SetupIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SetupIdentity{}, ErrInvalidToken
	}
	doctor, err := s.repo.FindBySetupToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SetupIdentity{}, ErrInvalidToken
		}
		return SetupIdentity{}, err
	}
	return SetupIdentity{Name: doctor.Name, Email: doctor.Email}, nil
}

// SetPassword consumes the setup token and stores the password on the doctor
// and on its verified mirror. A token can only be consumed once.
func (s *Service) SetPassword(ctx context.Context, token, password string) (models.Doctor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Doctor{}, ErrInvalidToken
	}
	if len(password) < auth.MinPasswordLength {
		return models.Doctor{}, ErrWeakPassword
	}
	if len(password) > auth.MaxPasswordLength {
		return models.Doctor{}, ErrLongPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Doctor{}, err
	}

	var updated models.Doctor
	err = s.runTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.ConsumeSetupToken(ctx, token, s.now(), hash)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrInvalidToken
			}
			return err
		}
		return s.repo.UpsertVerified(ctx, mirrorOf(updated, hash, s.now()))
	})
	if err != nil {
		return models.Doctor{}, err
	}
	return updated, nil
}

// AddReview records an admin review on the doctor and the matching rating on the admin.
func (s *Service) AddReview(ctx context.Context, doctorID, adminID primitive.ObjectID, rating int, comment string) (ReviewResult, error) {
	if rating < 1 || rating > 5 {
		return ReviewResult{}, ErrInvalidRating
	}
	if _, err := s.Get(ctx, doctorID); err != nil {
		return ReviewResult{}, err
	}

	now := s.now()
	comment = strings.TrimSpace(comment)

	var result ReviewResult
	err := s.runTx(ctx, func(ctx context.Context) error {
		admin, err := s.ratings.AddRating(ctx, adminID, models.Rating{
			DoctorID:  doctorID,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: now,
		})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrAdminNotFound
			}
			return err
		}
		doctor, err := s.repo.AddReview(ctx, doctorID, models.Review{
			AdminID:   adminID,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: now,
		})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}
		result = ReviewResult{Doctor: doctor, Admin: admin}
		return nil
	})
	if err != nil {
		return ReviewResult{}, err
	}
	return result, nil
}

func (s *Service) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.Run(ctx, fn)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil && s.log != nil {
		s.log.Warn("doctor cache invalidation: failed", slog.String("error", err.Error()))
	}
}
