package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Patient struct {
	PatientID uint      `gorm:"primaryKey" json:"patient_id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" gorm:"unique" validate:"required"`
	Password  string    `json:"password,omitempty" validate:"required,min=8"`
	Address   string    `json:"address"`
	DOB       string    `json:"dob"`
	Gender    string    `json:"gender"`
	Image     string    `json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

type PatientClaims struct {
	PatientID uint   `json:"patientID"`
	Phone     string `json:"phone"`
	jwt.RegisteredClaims
}

type VerifyOTP struct {
	Phone string `json:"phone"`
	Otp   string `json:"otp"`
}
