package controllers

import (
	"care-connect/authentication"
	"care-connect/configuration"
	"care-connect/media"
	"care-connect/models"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

// UserController handles patient registration, login and profile.
type UserController struct {
	OTP   authentication.OTPVerifier
	Media media.Store
}

// PatientRegister starts the signup flow: the patient data is parked in
// Redis until the phone number is verified with an OTP.
func (u *UserController) PatientRegister(c *gin.Context) {
	var patient models.Patient
	if err := c.BindJSON(&patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Validate patient struct fields
	if err := validate.Struct(patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please fill all the mandatory fields", "data": err.Error()})
		return
	}

	var existingPatient models.Patient
	if err := configuration.DB.Where("phone = ?", patient.Phone).First(&existingPatient).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Patient already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(patient.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}
	patient.Password = string(hashedPassword)

	// Send OTP to the patient's phone number
	if err := u.OTP.SendOTP(patient.Phone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to send OTP", "data": err.Error()})
		return
	}

	patientData, err := json.Marshal(&patient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to marshal patient"})
		return
	}

	// Park the signup in Redis until the OTP comes back
	key := fmt.Sprintf("user:%s", patient.Phone)
	if err := configuration.SetRedis(key, patientData, time.Minute*5); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Otp sent successfully. Proceed to verification"})
}

// VerifyRegistration checks the OTP and creates the patient record.
func (u *UserController) VerifyRegistration(c *gin.Context) {
	var req models.VerifyOTP
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Otp == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP not entered"})
		return
	}

	ok, err := u.OTP.CheckOTP(req.Phone, req.Otp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "OTP verification failed", "data": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid OTP"})
		return
	}

	key := fmt.Sprintf("user:%s", req.Phone)
	patientData, err := configuration.GetRedis(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Signup session expired, please register again"})
		return
	}

	var patient models.Patient
	if err := json.Unmarshal([]byte(patientData), &patient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to unmarshal patient"})
		return
	}

	if err := configuration.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create patient"})
		return
	}

	// The parked signup is spent: a replayed verification must not
	// re-attempt the create.
	if err := configuration.DelRedis(key); err != nil {
		log.Println("clearing signup session failed:", err)
	}

	token, err := authentication.GeneratePatientToken(patient.PatientID, patient.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration successful", "token": token})
}

// PatientLogin handles the patient login process
func (u *UserController) PatientLogin(c *gin.Context) {
	var loginReq struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Check if the provided phone number exists in the database
	var existingPatient models.Patient
	if err := configuration.DB.Where("phone = ?", loginReq.Phone).First(&existingPatient).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid phone number or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingPatient.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid phone number or password"})
		return
	}

	token, err := authentication.GeneratePatientToken(existingPatient.PatientID, existingPatient.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "token": token})
}

// GetProfile returns the authenticated patient's profile.
func (u *UserController) GetProfile(c *gin.Context) {
	patientID := c.GetUint("patientID")

	var patient models.Patient
	if err := configuration.DB.First(&patient, patientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient not found"})
		return
	}
	patient.Password = ""

	c.JSON(http.StatusOK, gin.H{"success": true, "userData": patient})
}

// UpdateProfile updates contact details and optionally the profile image.
func (u *UserController) UpdateProfile(c *gin.Context) {
	patientID := c.GetUint("patientID")

	var patient models.Patient
	if err := configuration.DB.First(&patient, patientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient not found"})
		return
	}

	name := c.PostForm("name")
	phone := c.PostForm("phone")
	address := c.PostForm("address")
	dob := c.PostForm("dob")
	gender := c.PostForm("gender")
	if name == "" || phone == "" || dob == "" || gender == "" || address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Data Missing"})
		return
	}

	updates := map[string]interface{}{
		"name":    name,
		"phone":   phone,
		"address": address,
		"dob":     dob,
		"gender":  gender,
	}

	// Upload the new image if one was provided
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to read image"})
			return
		}
		defer src.Close()

		url, err := u.Media.Upload(fmt.Sprintf("patients/%s-%s", uuid.New().String(), file.Filename), src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload image"})
			return
		}
		updates["image"] = url
	}

	if err := configuration.DB.Model(&patient).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile Updated"})
}
