package doctors

import (
	"time"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
)

type ListFilter struct {
	Status string
}

// Approval is the state written when a doctor leaves the unverified state.
// Exactly one of SetupToken or PasswordHash is set, depending on the onboarding mode.
type Approval struct {
	Username          string
	SetupToken        string
	SetupTokenExpires time.Time
	PasswordHash      string
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VerificationResult struct {
	Doctor          models.Doctor
	AlreadyApproved bool
	EmailQueued     bool
	NotifyErr       error
	Credentials     *Credentials
}

type SetupIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReviewResult struct {
	Doctor models.Doctor
	Admin  models.Admin
}

type SetupPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func mirrorOf(d models.Doctor, passwordHash string, now time.Time) models.VerifiedDoctor {
	return models.VerifiedDoctor{
		ID:         primitive.NewObjectID(),
		DoctorID:   d.ID,
		Name:       d.Name,
		Email:      d.Email,
		Mobile:     d.Mobile,
		Username:   d.Username,
		Password:   passwordHash,
		VerifiedAt: now,
	}
}
