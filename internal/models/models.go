package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ConsultationVideo  = "video"
	ConsultationClinic = "clinic"

	AppointmentStatusPending   = "pending"
	AppointmentStatusBooked    = "booked"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"

	RoleAdmin = "admin"
)

var AppointmentStatuses = []string{
	AppointmentStatusBooked,
	AppointmentStatusPending,
	AppointmentStatusCancelled,
	AppointmentStatusCompleted,
}

type Rating struct {
	DoctorID  primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	MobileNo     string             `bson:"mobileNo" json:"mobileNo"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	GivenRatings []Rating           `bson:"givenRatings" json:"givenRatings"`
}

type Review struct {
	AdminID   primitive.ObjectID `bson:"adminId" json:"adminId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Doctor struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name              string             `bson:"name" json:"name"`
	Speciality        string             `bson:"speciality" json:"speciality"`
	Email             string             `bson:"email" json:"email"`
	Mobile            string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	IsApproved        bool               `bson:"isApproved" json:"isApproved"`
	IsVerified        bool               `bson:"isVerified" json:"isVerified"`
	Username          string             `bson:"username,omitempty" json:"username,omitempty"`
	Password          string             `bson:"password,omitempty" json:"-"`
	SetupToken        string             `bson:"setupToken,omitempty" json:"-"`
	SetupTokenExpires *time.Time         `bson:"setupTokenExpires,omitempty" json:"-"`
	Reviews           []Review           `bson:"reviews" json:"reviews"`
	AverageRating     float64            `bson:"averageRating" json:"averageRating"`
}

// LoginUsername is the identity a doctor signs in with once approved.
func (d Doctor) LoginUsername() string {
	if d.Email != "" {
		return d.Email
	}
	return d.Mobile
}

type VerifiedDoctor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	DoctorID   primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Mobile     string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Username   string             `bson:"username" json:"username"`
	Password   string             `bson:"password" json:"-"`
	VerifiedAt time.Time          `bson:"verifiedAt" json:"verifiedAt"`
}

type Dependent struct {
	FullName string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	DOB      string `bson:"dob,omitempty" json:"dob,omitempty"`
	Mobile   string `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Gender   string `bson:"gender,omitempty" json:"gender,omitempty"`
	Relation string `bson:"relation,omitempty" json:"relation,omitempty"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
	Pincode  string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type UserAppointment struct {
	AppointmentID primitive.ObjectID `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	DoctorID      primitive.ObjectID `bson:"doctorId,omitempty" json:"doctorId,omitempty"`
	Type          string             `bson:"type,omitempty" json:"type,omitempty"`
	Date          *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
	Time          string             `bson:"time,omitempty" json:"time,omitempty"`
	JitsiLink     string             `bson:"jitsiLink,omitempty" json:"jitsiLink,omitempty"`
	Dependent     *Dependent         `bson:"dependent,omitempty" json:"dependent,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
}

type Document struct {
	PublicID   string    `bson:"public_id,omitempty" json:"public_id,omitempty"`
	URL        string    `bson:"url,omitempty" json:"url,omitempty"`
	Format     string    `bson:"format,omitempty" json:"format,omitempty"`
	FileName   string    `bson:"fileName,omitempty" json:"fileName,omitempty"`
	Size       int64     `bson:"size,omitempty" json:"size,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}

// User is a patient account. Credentials and OTP state stay in the document
// but are never decoded into this struct.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName          string             `bson:"full_name" json:"full_name"`
	PhoneNumber       string             `bson:"phone_number" json:"phone_number"`
	DOB               *time.Time         `bson:"dob,omitempty" json:"dob,omitempty"`
	Gender            string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Email             string             `bson:"email,omitempty" json:"email,omitempty"`
	Address           string             `bson:"address,omitempty" json:"address,omitempty"`
	LanguagePreferred string             `bson:"language_preferred,omitempty" json:"language_preferred,omitempty"`
	Height            float64            `bson:"height,omitempty" json:"height,omitempty"`
	Weight            float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	HealthConditions  []string           `bson:"health_conditions,omitempty" json:"health_conditions,omitempty"`
	OTPVerified       bool               `bson:"otp_verified" json:"otp_verified"`
	Status            bool               `bson:"status" json:"status"`
	Appointments      []UserAppointment  `bson:"appointments,omitempty" json:"appointments"`
	Documents         []Document         `bson:"documents,omitempty" json:"documents"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	DoctorID        primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Date            time.Time          `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Type            string             `bson:"type" json:"type"`
	Status          string             `bson:"status" json:"status"`
	Amount          float64            `bson:"amount" json:"amount"`
	Dependent       *Dependent         `bson:"dependent,omitempty" json:"dependent,omitempty"`
	JitsiLink       *string            `bson:"jitsiLink" json:"jitsiLink"`
	RazorpayOrderID *string            `bson:"razorpayOrderId" json:"razorpayOrderId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
