package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Doctor struct {
	DoctorID   uint    `gorm:"primaryKey" json:"doctor_id"`
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" gorm:"unique" validate:"required,email"`
	Password   string  `json:"password,omitempty" validate:"required,min=8"`
	Image      string  `json:"image"`
	Speciality string  `json:"speciality" validate:"required"`
	Degree     string  `json:"degree" validate:"required"`
	Experience string  `json:"experience" validate:"required"`
	About      string  `json:"about" validate:"required"`
	Fees       float64 `json:"fees" validate:"required,gt=0"`
	Address    string  `json:"address" validate:"required"`
	// Available gates booking: reserve refuses slots for unavailable
	// doctors. No column default: a zero value must persist as false, so
	// creators set it explicitly.
	Available bool      `json:"available"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

type DoctorClaims struct {
	Id          uint   `json:"id"`
	DoctorEmail string `json:"email"`
	jwt.RegisteredClaims
}
