package controllers

import (
	"care-connect/authentication"
	"care-connect/configuration"
	"care-connect/ledger"
	"care-connect/media"
	"care-connect/models"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminController manages the doctor roster and the appointment overview.
// Admin credentials come from the injected configuration, never read from
// the environment at request time.
type AdminController struct {
	Cfg    *configuration.Config
	Ledger *ledger.Ledger
	Media  media.Store
}

// AdminLogin issues an admin token after checking the configured
// credentials.
func (a *AdminController) AdminLogin(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if loginReq.Email != a.Cfg.AdminEmail || loginReq.Password != a.Cfg.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid Credentials"})
		return
	}

	token, err := authentication.GenerateAdminToken(loginReq.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// AddDoctor creates a doctor profile from a multipart form with an image.
func (a *AdminController) AddDoctor(c *gin.Context) {
	doctor := models.Doctor{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		Speciality: c.PostForm("speciality"),
		Degree:     c.PostForm("degree"),
		Experience: c.PostForm("experience"),
		About:      c.PostForm("about"),
		Address:    c.PostForm("address"),
		Available:  true,
	}
	doctor.Fees, _ = strconv.ParseFloat(c.PostForm("fees"), 64)

	// Validate doctor struct fields
	if err := validate.Struct(doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing Details", "data": err.Error()})
		return
	}

	// Check if email is already in use
	var existingDoctor models.Doctor
	if err := configuration.DB.Where("email = ?", doctor.Email).First(&existingDoctor).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Doctor with this email already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please upload an image"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to read image"})
		return
	}
	defer src.Close()

	url, err := a.Media.Upload(fmt.Sprintf("doctors/%s-%s", uuid.New().String(), file.Filename), src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload image"})
		return
	}
	doctor.Image = url

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(doctor.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}
	doctor.Password = string(hashedPassword)

	if err := configuration.DB.Create(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add doctor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Doctor Added Successfully"})
}

// AllDoctors returns the full roster, passwords stripped.
func (a *AdminController) AllDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := configuration.DB.Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Couldn't get doctors details"})
		return
	}
	for i := range doctors {
		doctors[i].Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

// ChangeAvailability flips a doctor's availability flag.
func (a *AdminController) ChangeAvailability(c *gin.Context) {
	var req struct {
		DoctorID uint `json:"doctorId" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, req.DoctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found"})
		return
	}

	if err := configuration.DB.Model(&doctor).Update("available", !doctor.Available).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to change availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Availability Changed"})
}

// Appointments lists every appointment for the admin panel.
func (a *AdminController) Appointments(c *gin.Context) {
	var appointments []models.Appointment
	if err := configuration.DB.Order("booked_at desc").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

// CancelAppointment releases any appointment's slot on behalf of the admin.
func (a *AdminController) CancelAppointment(c *gin.Context) {
	var req struct {
		AppointmentID uint `json:"appointmentId" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := a.Ledger.Release(c.Request.Context(), req.AppointmentID, 0, ledger.RoleAdmin); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ledger.ErrAppointmentNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ledger.ErrAlreadyCancelled):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment Cancelled"})
}

// Dashboard aggregates the counters shown on the admin landing page.
func (a *AdminController) Dashboard(c *gin.Context) {
	var doctors, patients, appointments int64
	configuration.DB.Model(&models.Doctor{}).Count(&doctors)
	configuration.DB.Model(&models.Patient{}).Count(&patients)
	configuration.DB.Model(&models.Appointment{}).Count(&appointments)

	var latest []models.Appointment
	if err := configuration.DB.Order("booked_at desc").Limit(5).Find(&latest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dashData": gin.H{
			"doctors":            doctors,
			"patients":           patients,
			"appointments":       appointments,
			"latestAppointments": latest,
		},
	})
}
