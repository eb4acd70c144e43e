package appointments

import (
	"time"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	FullName    string             `bson:"full_name" json:"full_name"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
}

type DoctorSummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Speciality string             `bson:"speciality" json:"speciality"`
	Email      string             `bson:"email" json:"email"`
	Mobile     string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
}

// View is an appointment with its patient and doctor joined in place of the
// referenced ids. A reference to a deleted record decodes as nil.
type View struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	User            *UserSummary       `bson:"userId,omitempty" json:"userId"`
	Doctor          *DoctorSummary     `bson:"doctorId,omitempty" json:"doctorId"`
	Date            time.Time          `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Type            string             `bson:"type" json:"type"`
	Status          string             `bson:"status" json:"status"`
	Amount          float64            `bson:"amount" json:"amount"`
	Dependent       *models.Dependent  `bson:"dependent,omitempty" json:"dependent,omitempty"`
	JitsiLink       *string            `bson:"jitsiLink" json:"jitsiLink"`
	RazorpayOrderID *string            `bson:"razorpayOrderId" json:"razorpayOrderId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

func (v View) DoctorName() string {
	if v.Doctor == nil {
		return ""
	}
	return v.Doctor.Name
}

func (v View) PatientName() string {
	if v.User == nil {
		return ""
	}
	return v.User.FullName
}
