package controllers

import (
	"care-connect/configuration"
	"care-connect/ledger"
	"care-connect/models"
	"care-connect/payment"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentController ties the payment gateway to the slot ledger. Payment is
// orthogonal to reservation: nothing here touches slot occupancy.
type PaymentController struct {
	Ledger  *ledger.Ledger
	Gateway payment.Gateway
	Cfg     *configuration.Config
}

type paymentSession struct {
	TransactionID string `json:"transaction_id"`
	RedirectURL   string `json:"redirect_url"`
}

// InitiatePayment creates a gateway session for an unpaid appointment and
// returns the redirect URL. Re-initiating while a session is still pending
// returns the same URL instead of opening a second one.
func (p *PaymentController) InitiatePayment(c *gin.Context) {
	var req struct {
		AppointmentID uint `json:"appointmentId" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	patientID := c.GetUint("patientID")

	var appointment models.Appointment
	if err := configuration.DB.First(&appointment, req.AppointmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Appointment not found"})
		return
	}
	if appointment.PatientID != patientID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized for this appointment"})
		return
	}
	if appointment.Cancelled {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Appointment has been cancelled"})
		return
	}
	if appointment.Payment {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Appointment already paid"})
		return
	}

	sessionKey := fmt.Sprintf("paysession:%d", appointment.AppointmentID)
	if cached, err := configuration.GetRedis(sessionKey); err == nil {
		var session paymentSession
		if err := json.Unmarshal([]byte(cached), &session); err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "redirectUrl": session.RedirectURL})
			return
		}
	}

	receipt := uuid.New().String()
	session, err := p.Gateway.Initiate(c.Request.Context(), appointment.Amount, receipt,
		fmt.Sprintf("Appointment #%d on %s %s", appointment.AppointmentID, appointment.SlotDate, appointment.SlotTime))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Failed to initiate payment"})
		return
	}

	// The callback only quotes the transaction id, so it is persisted on
	// the appointment before the patient is redirected.
	if err := configuration.DB.Model(&appointment).
		Update("transaction_id", session.TransactionID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record transaction"})
		return
	}

	if data, err := json.Marshal(paymentSession{TransactionID: session.TransactionID, RedirectURL: session.RedirectURL}); err == nil {
		if err := configuration.SetRedis(sessionKey, data, 30*time.Minute); err != nil {
			log.Println("payment session cache failed:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "redirectUrl": session.RedirectURL})
}

// VerifyPayment is the gateway callback. It never trusts the status field
// alone: the payment is validated against the gateway before any state
// changes, and the response is always a redirect to the frontend.
func (p *PaymentController) VerifyPayment(c *gin.Context) {
	transactionID := callbackParam(c, "transactionId", "razorpay_payment_link_id")
	validationID := callbackParam(c, "validationId", "razorpay_payment_id")

	if transactionID == "" || validationID == "" {
		c.Redirect(http.StatusFound, p.Cfg.PaymentFailureURL)
		return
	}

	valid, err := p.Gateway.Validate(c.Request.Context(), validationID)
	if err != nil {
		// Gateway unreachable is a failure, never a silent success.
		log.Println("payment validation failed:", err)
		c.Redirect(http.StatusFound, p.Cfg.PaymentFailureURL)
		return
	}

	status := "FAILED"
	if valid {
		status = ledger.StatusValid
	}

	if err := p.Ledger.ConfirmPayment(c.Request.Context(), transactionID, status); err != nil {
		if !errors.Is(err, ledger.ErrAppointmentNotFound) {
			log.Println("payment confirmation failed:", err)
		}
		c.Redirect(http.StatusFound, p.Cfg.PaymentFailureURL)
		return
	}

	if !valid {
		c.Redirect(http.StatusFound, p.Cfg.PaymentFailureURL)
		return
	}
	c.Redirect(http.StatusFound, p.Cfg.PaymentSuccessURL)
}

// callbackParam reads a callback field by the API name or the gateway's
// own parameter name, from the query string or the form body.
func callbackParam(c *gin.Context, name, gatewayName string) string {
	for _, key := range []string{name, gatewayName} {
		if v := c.Query(key); v != "" {
			return v
		}
		if v := c.PostForm(key); v != "" {
			return v
		}
	}
	return ""
}
