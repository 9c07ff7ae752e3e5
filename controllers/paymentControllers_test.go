package controllers

import (
	"care-connect/configuration"
	"care-connect/ledger"
	"care-connect/models"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"care-connect/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGateway scripts the server-side validation verdict.
type stubGateway struct {
	valid bool
	err   error
}

func (s *stubGateway) Initiate(ctx context.Context, amount float64, receipt, description string) (*payment.Session, error) {
	return &payment.Session{TransactionID: "plink_stub", RedirectURL: "https://gateway.example/pay"}, nil
}

func (s *stubGateway) Validate(ctx context.Context, validationID string) (bool, error) {
	return s.valid, s.err
}

func setupPaymentTest(t *testing.T, gw payment.Gateway) (*gin.Engine, *gorm.DB, *models.Appointment) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Doctor{}, &models.Appointment{}, &models.BookedSlot{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}

	doctor := models.Doctor{
		Name: "Dr. Sara Thomas", Email: fmt.Sprintf("%s@example.com", t.Name()),
		Password: "x", Speciality: "Gynecologist", Degree: "MBBS",
		Experience: "5 Years", About: "OBGYN", Fees: 60, Address: "9 Lake View",
		Available: true,
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("seeding doctor: %v", err)
	}

	slotLedger := ledger.New(db)
	appointment, err := slotLedger.Reserve(context.Background(), doctor.DoctorID, 1, "2024-01-10", "10:00")
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if err := db.Model(&models.Appointment{}).
		Where("appointment_id = ?", appointment.AppointmentID).
		Update("transaction_id", "plink_stub").Error; err != nil {
		t.Fatalf("setting transaction id: %v", err)
	}

	pc := &PaymentController{
		Ledger:  slotLedger,
		Gateway: gw,
		Cfg: &configuration.Config{
			PaymentSuccessURL: "https://frontend.example/payment/success",
			PaymentFailureURL: "https://frontend.example/payment/failure",
		},
	}

	r := gin.New()
	r.GET("/payment/verify", pc.VerifyPayment)
	return r, db, appointment
}

func verifyRequest(t *testing.T, r *gin.Engine, query string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payment/verify"+query, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyPaymentSuccess(t *testing.T) {
	r, db, appointment := setupPaymentTest(t, &stubGateway{valid: true})

	w := verifyRequest(t, r, "?transactionId=plink_stub&validationId=pay_1&status=paid")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "https://frontend.example/payment/success" {
		t.Errorf("redirect = %q, want success page", loc)
	}

	var got models.Appointment
	db.First(&got, appointment.AppointmentID)
	if !got.Payment || got.PaymentStatus != "Success" {
		t.Errorf("appointment not marked paid: payment=%v status=%q", got.Payment, got.PaymentStatus)
	}
}

func TestVerifyPaymentGatewayRejects(t *testing.T) {
	// The callback claims success but the gateway-side validation says no.
	r, db, appointment := setupPaymentTest(t, &stubGateway{valid: false})

	w := verifyRequest(t, r, "?transactionId=plink_stub&validationId=pay_1&status=paid")
	if loc := w.Header().Get("Location"); loc != "https://frontend.example/payment/failure" {
		t.Errorf("redirect = %q, want failure page", loc)
	}

	var got models.Appointment
	db.First(&got, appointment.AppointmentID)
	if got.Payment {
		t.Error("appointment marked paid on a rejected validation")
	}
}

func TestVerifyPaymentGatewayUnreachable(t *testing.T) {
	r, db, appointment := setupPaymentTest(t, &stubGateway{err: errors.New("gateway timeout")})

	w := verifyRequest(t, r, "?transactionId=plink_stub&validationId=pay_1")
	if loc := w.Header().Get("Location"); loc != "https://frontend.example/payment/failure" {
		t.Errorf("redirect = %q, want failure page", loc)
	}

	var got models.Appointment
	db.First(&got, appointment.AppointmentID)
	if got.Payment || got.PaymentStatus == "Success" {
		t.Error("gateway error treated as success")
	}
}

func TestVerifyPaymentUnknownTransaction(t *testing.T) {
	r, _, _ := setupPaymentTest(t, &stubGateway{valid: true})

	w := verifyRequest(t, r, "?transactionId=plink_unknown&validationId=pay_1")
	if loc := w.Header().Get("Location"); loc != "https://frontend.example/payment/failure" {
		t.Errorf("redirect = %q, want failure page", loc)
	}
}

func TestVerifyPaymentMissingParams(t *testing.T) {
	r, _, _ := setupPaymentTest(t, &stubGateway{valid: true})

	w := verifyRequest(t, r, "")
	if loc := w.Header().Get("Location"); loc != "https://frontend.example/payment/failure" {
		t.Errorf("redirect = %q, want failure page", loc)
	}
}
