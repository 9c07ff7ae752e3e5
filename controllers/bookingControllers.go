package controllers

import (
	"care-connect/configuration"
	"care-connect/ledger"
	"care-connect/models"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BookingController fronts the slot ledger for the patient-facing booking
// and cancellation endpoints.
type BookingController struct {
	Ledger *ledger.Ledger
	Cfg    *configuration.Config
}

// BookAppointment reserves a slot for the authenticated patient.
func (b *BookingController) BookAppointment(c *gin.Context) {
	var req struct {
		DoctorID uint   `json:"doctorId" binding:"required"`
		SlotDate string `json:"date" binding:"required"`
		SlotTime string `json:"time" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	patientID := c.GetUint("patientID")

	// Reject slots in the past
	if date, err := time.Parse("2006-01-02", req.SlotDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format"})
		return
	} else if date.Before(time.Now().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Date cannot be in the past"})
		return
	}

	appointment, err := b.Ledger.Reserve(c.Request.Context(), req.DoctorID, patientID, req.SlotDate, req.SlotTime)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ledger.ErrDoctorNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ledger.ErrDoctorUnavailable),
			errors.Is(err, ledger.ErrSlotTaken),
			errors.Is(err, ledger.ErrDuplicateBooking):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Best-effort confirmation mail with the invoice attached; a mail
	// failure never fails the booking.
	go b.sendBookingInvoice(appointment)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Appointment Booked",
		"appointmentId": appointment.AppointmentID,
	})
}

func (b *BookingController) sendBookingInvoice(appointment *models.Appointment) {
	if b.Cfg.SMTPEmail == "" {
		return
	}
	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, appointment.DoctorID).Error; err != nil {
		log.Println("invoice mail: doctor lookup failed:", err)
		return
	}
	var patient models.Patient
	if err := configuration.DB.First(&patient, appointment.PatientID).Error; err != nil {
		log.Println("invoice mail: patient lookup failed:", err)
		return
	}

	pdfInvoice, err := generateBookingInvoicePDF(appointment, &doctor, &patient)
	if err != nil {
		log.Println("invoice mail: pdf generation failed:", err)
		return
	}

	if err := SendEmail(b.Cfg.SMTPEmail, b.Cfg.SMTPPassword,
		"Appointment confirmation",
		"Your appointment has been booked. The invoice is attached.",
		patient.Email, "invoice.pdf", pdfInvoice); err != nil {
		log.Println("invoice mail: send failed:", err)
	}
}

// CancelAppointment releases the slot held by one of the patient's own
// appointments.
func (b *BookingController) CancelAppointment(c *gin.Context) {
	var req struct {
		AppointmentID uint `json:"appointmentId" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	patientID := c.GetUint("patientID")

	if err := b.Ledger.Release(c.Request.Context(), req.AppointmentID, patientID, ledger.RolePatient); err != nil {
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

// ListAppointments returns the authenticated patient's appointment history,
// cancelled ones included.
func (b *BookingController) ListAppointments(c *gin.Context) {
	patientID := c.GetUint("patientID")

	var appointments []models.Appointment
	if err := configuration.DB.
		Where("patient_id = ?", patientID).
		Order("booked_at desc").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}
