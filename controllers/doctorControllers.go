package controllers

import (
	"care-connect/authentication"
	"care-connect/configuration"
	"care-connect/ledger"
	"care-connect/models"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// DoctorController covers the public doctor directory and the doctor-side
// endpoints.
type DoctorController struct {
	Ledger *ledger.Ledger
}

// doctorDocument is the public shape of a doctor, slot map included.
type doctorDocument struct {
	models.Doctor
	SlotsBooked map[string][]string `json:"slots_booked"`
}

// DoctorList returns the public directory with each doctor's booked slot
// map, so clients can grey out taken slots.
func (d *DoctorController) DoctorList(c *gin.Context) {
	var doctors []models.Doctor
	if err := configuration.DB.Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Couldn't get doctors details"})
		return
	}

	docs := make([]doctorDocument, 0, len(doctors))
	for _, doctor := range doctors {
		doctor.Password = ""
		doctor.Email = ""

		booked, err := d.Ledger.SlotsBooked(c.Request.Context(), doctor.DoctorID)
		if err != nil {
			log.Println("slot map lookup failed:", err)
			booked = map[string][]string{}
		}
		docs = append(docs, doctorDocument{Doctor: doctor, SlotsBooked: booked})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": docs})
}

// DoctorLogin authenticates a doctor and issues a token.
func (d *DoctorController) DoctorLogin(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var doctor models.Doctor
	if err := configuration.DB.Where("email = ?", loginReq.Email).First(&doctor).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid Credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid Credentials"})
		return
	}

	token, err := authentication.GenerateDoctorToken(doctor.DoctorID, doctor.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// ChangeAvailability lets the authenticated doctor toggle their own flag.
func (d *DoctorController) ChangeAvailability(c *gin.Context) {
	doctorID := c.GetUint("doctorID")

	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, doctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found"})
		return
	}

	if err := configuration.DB.Model(&doctor).Update("available", !doctor.Available).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to change availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Availability Changed"})
}

// Appointments lists the authenticated doctor's appointments.
func (d *DoctorController) Appointments(c *gin.Context) {
	doctorID := c.GetUint("doctorID")

	var appointments []models.Appointment
	if err := configuration.DB.
		Where("doctor_id = ?", doctorID).
		Order("booked_at desc").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

// CancelAppointment releases a slot on one of the doctor's own
// appointments.
func (d *DoctorController) CancelAppointment(c *gin.Context) {
	var req struct {
		AppointmentID uint `json:"appointmentId" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	doctorID := c.GetUint("doctorID")

	if err := d.Ledger.Release(c.Request.Context(), req.AppointmentID, doctorID, ledger.RoleDoctor); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ledger.ErrAppointmentNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ledger.ErrAlreadyCancelled):
			status = http.StatusConflict
		case errors.Is(err, ledger.ErrUnauthorized):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment Cancelled"})
}
