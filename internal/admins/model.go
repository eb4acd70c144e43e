package admins

import (
	"time"

	"github.com/eashaop2023/admineashaop/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	MobileNo string `json:"mobileNo" validate:"required,mobile10"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Profile is the public view of an admin.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	MobileNo string `json:"mobileNo,omitempty"`
}

type LoginResult struct {
	Admin     models.Admin
	Token     string
	ExpiresAt time.Time
}

func profileOf(a models.Admin) Profile {
	return Profile{
		ID:       a.ID.Hex(),
		Username: a.Username,
		Email:    a.Email,
		MobileNo: a.MobileNo,
	}
}
