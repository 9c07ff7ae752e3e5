package authentication

import (
	"errors"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

// OTPVerifier sends and checks one-time codes during patient signup.
type OTPVerifier interface {
	SendOTP(phone string) error
	CheckOTP(phone, code string) (bool, error)
}

// TwilioVerifier implements OTPVerifier on the Twilio Verify API.
type TwilioVerifier struct {
	client     *twilio.RestClient
	serviceSID string
}

func NewTwilioVerifier(accountSID, authToken, serviceSID string) *TwilioVerifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioVerifier{client: client, serviceSID: serviceSID}
}

// SendOTP asks Twilio to deliver a verification code over SMS.
func (t *TwilioVerifier) SendOTP(phone string) error {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	_, err := t.client.VerifyV2.CreateVerification(t.serviceSID, params)
	return err
}

// CheckOTP verifies the code the patient entered.
func (t *TwilioVerifier) CheckOTP(phone, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := t.client.VerifyV2.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		return false, err
	}
	if resp.Status == nil {
		return false, errors.New("verification status missing in response")
	}
	return *resp.Status == "approved", nil
}
