package authentication

import "testing"

func TestPatientTokenRoundTrip(t *testing.T) {
	token, err := GeneratePatientToken(42, "+911234567890")
	if err != nil {
		t.Fatalf("GeneratePatientToken() error = %v", err)
	}

	patientID, phone, err := AuthenticatePatient(token)
	if err != nil {
		t.Fatalf("AuthenticatePatient() error = %v", err)
	}
	if patientID != 42 || phone != "+911234567890" {
		t.Errorf("AuthenticatePatient() = (%d, %q), want (42, +911234567890)", patientID, phone)
	}
}

func TestDoctorTokenRoundTrip(t *testing.T) {
	token, err := GenerateDoctorToken(7, "doc@example.com")
	if err != nil {
		t.Fatalf("GenerateDoctorToken() error = %v", err)
	}

	doctorID, email, err := AuthenticateDoctor(token)
	if err != nil {
		t.Fatalf("AuthenticateDoctor() error = %v", err)
	}
	if doctorID != 7 || email != "doc@example.com" {
		t.Errorf("AuthenticateDoctor() = (%d, %q), want (7, doc@example.com)", doctorID, email)
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("admin@example.com")
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}

	email, err := AdminAuthentication(token)
	if err != nil {
		t.Fatalf("AdminAuthentication() error = %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("AdminAuthentication() = %q, want admin@example.com", email)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	patientToken, err := GeneratePatientToken(1, "+911111111111")
	if err != nil {
		t.Fatalf("GeneratePatientToken() error = %v", err)
	}

	// A patient token is signed with a different key than a doctor token.
	if _, _, err := AuthenticateDoctor(patientToken); err == nil {
		t.Error("AuthenticateDoctor() accepted a patient token")
	}

	if _, _, err := AuthenticatePatient("not-a-token"); err == nil {
		t.Error("AuthenticatePatient() accepted garbage")
	}
}
