package controllers

import (
	"bytes"
	"care-connect/models"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// generateBookingInvoicePDF builds the confirmation invoice attached to the
// booking email.
func generateBookingInvoicePDF(appointment *models.Appointment, doctor *models.Doctor, patient *models.Patient) ([]byte, error) {
	// Initialize PDF document
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(128, 0, 128)
	pdf.CellFormat(0, 10, "Care Connect - Doctor Appointment Booking", "", 1, "C", false, 0, "")

	// Appointment details section
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Appointment Invoice", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Appointment ID", fmt.Sprintf("%d", appointment.AppointmentID), true)
	addDetail(pdf, "Doctor Name", doctor.Name, true)
	addDetail(pdf, "Speciality", doctor.Speciality, true)
	addDetail(pdf, "Patient Name", patient.Name, true)
	addDetail(pdf, "Appointment Date", appointment.SlotDate, true)
	addDetail(pdf, "Time Slot", appointment.SlotTime, true)

	// Payment details section
	pdf.CellFormat(0, 10, "Payment Details", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Payment Status", appointment.PaymentStatus, false)
	pdf.SetFont("Arial", "B", 13)
	addDetail(pdf, "Amount Due", fmt.Sprintf("%.2f", appointment.Amount), true)

	// Payment instructions
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 10, "Payment Instructions:", "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 5, "Thank you for booking the appointment. You can pay online from your appointments page.", "", "L", false)

	pdf.SetY(pdf.GetY() + 12)
	pdf.CellFormat(0, 10, "This is a computer generated invoice", "", 1, "R", false, 0, "")

	// Output PDF to buffer
	var pdfBuffer bytes.Buffer
	if err := pdf.Output(&pdfBuffer); err != nil {
		return nil, err
	}

	return pdfBuffer.Bytes(), nil
}

// addDetail adds a detail line to the PDF
func addDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(255, 255, 255)
	} else {
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
	}
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
