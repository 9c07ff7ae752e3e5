package controllers

import (
	"bytes"
	"care-connect/configuration"
	"care-connect/ledger"
	"care-connect/models"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeAuth stands in for the patient JWT middleware.
func fakeAuth(patientID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("patientID", patientID)
		c.Next()
	}
}

func setupBookingTest(t *testing.T) (*gorm.DB, *BookingController) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Doctor{}, &models.Patient{}, &models.Appointment{}, &models.BookedSlot{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	configuration.DB = db

	doctor := models.Doctor{
		Name: "Dr. Vikram Shah", Email: fmt.Sprintf("%s@example.com", t.Name()),
		Password: "x", Speciality: "Neurologist", Degree: "MBBS",
		Experience: "8 Years", About: "Neurology", Fees: 90, Address: "2 Hill Road",
		Available: true,
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("seeding doctor: %v", err)
	}

	return db, &BookingController{Ledger: ledger.New(db), Cfg: &configuration.Config{}}
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestBookAppointmentEndpoint(t *testing.T) {
	db, bc := setupBookingTest(t)

	var doctor models.Doctor
	db.First(&doctor)

	asPatient := func(id uint) *gin.Engine {
		r := gin.New()
		r.POST("/book-appointment", fakeAuth(id), bc.BookAppointment)
		r.POST("/cancel-appointment", fakeAuth(id), bc.CancelAppointment)
		return r
	}

	// P1 books.
	w, resp := postJSON(t, asPatient(1), "/book-appointment", gin.H{
		"doctorId": doctor.DoctorID, "date": "2030-01-10", "time": "10:00",
	})
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("booking: code=%d body=%v", w.Code, resp)
	}
	appointmentID := uint(resp["appointmentId"].(float64))

	// P2 collides.
	w, resp = postJSON(t, asPatient(2), "/book-appointment", gin.H{
		"doctorId": doctor.DoctorID, "date": "2030-01-10", "time": "10:00",
	})
	if w.Code != http.StatusConflict || resp["success"] != false {
		t.Errorf("conflicting booking: code=%d body=%v", w.Code, resp)
	}

	// P2 cannot cancel P1's appointment.
	w, _ = postJSON(t, asPatient(2), "/cancel-appointment", gin.H{"appointmentId": appointmentID})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign cancel: code=%d, want %d", w.Code, http.StatusForbidden)
	}

	// P1 cancels, P2 rebooks.
	w, _ = postJSON(t, asPatient(1), "/cancel-appointment", gin.H{"appointmentId": appointmentID})
	if w.Code != http.StatusOK {
		t.Errorf("own cancel: code=%d, want %d", w.Code, http.StatusOK)
	}
	w, _ = postJSON(t, asPatient(2), "/book-appointment", gin.H{
		"doctorId": doctor.DoctorID, "date": "2030-01-10", "time": "10:00",
	})
	if w.Code != http.StatusOK {
		t.Errorf("rebooking freed slot: code=%d, want %d", w.Code, http.StatusOK)
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	db, bc := setupBookingTest(t)

	var doctor models.Doctor
	db.First(&doctor)

	r := gin.New()
	r.POST("/book-appointment", fakeAuth(1), bc.BookAppointment)

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"missing fields", gin.H{"doctorId": doctor.DoctorID}, http.StatusBadRequest},
		{"bad date", gin.H{"doctorId": doctor.DoctorID, "date": "10-01-2030", "time": "10:00"}, http.StatusBadRequest},
		{"past date", gin.H{"doctorId": doctor.DoctorID, "date": "2020-01-10", "time": "10:00"}, http.StatusBadRequest},
		{"unknown doctor", gin.H{"doctorId": 9999, "date": "2030-01-10", "time": "10:00"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := postJSON(t, r, "/book-appointment", tt.body)
			if w.Code != tt.code {
				t.Errorf("code = %d, want %d", w.Code, tt.code)
			}
		})
	}
}
