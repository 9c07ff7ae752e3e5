package controllers

import (
	"care-connect/configuration"
	"care-connect/models"
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubOTP accepts every code without talking to a verification service.
type stubOTP struct{}

func (stubOTP) SendOTP(phone string) error { return nil }

func (stubOTP) CheckOTP(phone, code string) (bool, error) { return true, nil }

func setupUserTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	configuration.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Patient{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	configuration.DB = db

	uc := &UserController{OTP: stubOTP{}}

	r := gin.New()
	r.POST("/register", uc.PatientRegister)
	r.POST("/verify-otp", uc.VerifyRegistration)
	return r, db
}

func TestRegistrationVerifyReplay(t *testing.T) {
	r, db := setupUserTest(t)

	w, _ := postJSON(t, r, "/register", gin.H{
		"name":     "Asha Pillai",
		"email":    "asha@example.com",
		"phone":    "+911234509876",
		"password": "longenough",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register: code=%d body=%s", w.Code, w.Body.String())
	}

	w, resp := postJSON(t, r, "/verify-otp", gin.H{"phone": "+911234509876", "otp": "123456"})
	if w.Code != http.StatusOK || resp["token"] == nil {
		t.Fatalf("verify: code=%d body=%v", w.Code, resp)
	}

	// The parked signup is consumed: replaying the verified OTP must not
	// re-attempt the create, it reports the session gone.
	w, _ = postJSON(t, r, "/verify-otp", gin.H{"phone": "+911234509876", "otp": "123456"})
	if w.Code != http.StatusNotFound {
		t.Errorf("replayed verify: code=%d, want %d", w.Code, http.StatusNotFound)
	}

	var patients int64
	if err := db.Model(&models.Patient{}).Count(&patients).Error; err != nil {
		t.Fatalf("counting patients: %v", err)
	}
	if patients != 1 {
		t.Errorf("patient rows = %d, want 1", patients)
	}
}
