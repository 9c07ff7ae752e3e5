// Package payment wraps the external payment gateway. The rest of the
// service only ever sees a redirect URL to send the patient to and a
// server-side validation verdict for the callback; the status field POSTed
// by the gateway is never trusted on its own.
package payment

import (
	"context"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
)

// Session is one initiated payment: where to send the patient and the id
// the gateway will quote back on its callback.
type Session struct {
	TransactionID string
	RedirectURL   string
}

type Gateway interface {
	// Initiate registers the amount with the gateway and returns the
	// hosted payment page URL.
	Initiate(ctx context.Context, amount float64, receipt, description string) (*Session, error)
	// Validate asks the gateway whether the payment referenced by the
	// callback actually went through.
	Validate(ctx context.Context, validationID string) (bool, error)
}

// RazorpayGateway implements Gateway on Razorpay payment links.
type RazorpayGateway struct {
	client      *razorpay.Client
	callbackURL string
}

func NewRazorpayGateway(keyID, keySecret, callbackURL string) *RazorpayGateway {
	return &RazorpayGateway{
		client:      razorpay.NewClient(keyID, keySecret),
		callbackURL: callbackURL,
	}
}

func (g *RazorpayGateway) Initiate(ctx context.Context, amount float64, receipt, description string) (*Session, error) {
	// Razorpay wants the amount in paise.
	data := map[string]interface{}{
		"amount":          int64(amount * 100),
		"currency":        "INR",
		"reference_id":    receipt,
		"description":     description,
		"callback_url":    g.callbackURL,
		"callback_method": "get",
	}

	body, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return nil, err
	}

	id, ok := body["id"].(string)
	if !ok {
		return nil, errors.New("payment link id missing in gateway response")
	}
	shortURL, ok := body["short_url"].(string)
	if !ok {
		return nil, errors.New("payment link url missing in gateway response")
	}

	return &Session{TransactionID: id, RedirectURL: shortURL}, nil
}

func (g *RazorpayGateway) Validate(ctx context.Context, validationID string) (bool, error) {
	body, err := g.client.Payment.Fetch(validationID, nil, nil)
	if err != nil {
		return false, err
	}

	status, ok := body["status"].(string)
	if !ok {
		return false, errors.New("payment status missing in gateway response")
	}
	return status == "captured", nil
}
