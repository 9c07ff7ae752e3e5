package models

import "time"

// Appointment is the audit record of a booking. Slot occupancy is decided by
// the booked_slots table, never by scanning appointments.
type Appointment struct {
	AppointmentID uint      `gorm:"primaryKey" json:"appointment_id"`
	PatientID     uint      `json:"patient_id" gorm:"index"`
	DoctorID      uint      `json:"doctor_id" gorm:"index"`
	SlotDate      string    `json:"slot_date"`
	SlotTime      string    `json:"slot_time"`
	Amount        float64   `json:"amount"`
	Cancelled     bool      `json:"cancelled"`
	Payment       bool      `json:"payment"`
	PaymentStatus string    `json:"payment_status"`
	TransactionID string    `json:"transaction_id,omitempty" gorm:"index"`
	BookedAt      time.Time `gorm:"autoCreateTime" json:"booked_at"`
}

// BookedSlot is one occupied (doctor, date, time) cell. The composite unique
// index makes the insert a conditional claim of the slot: the second writer
// conflicts instead of overwriting.
type BookedSlot struct {
	SlotID        uint   `gorm:"primaryKey"`
	DoctorID      uint   `gorm:"uniqueIndex:idx_doctor_slot"`
	SlotDate      string `gorm:"uniqueIndex:idx_doctor_slot"`
	SlotTime      string `gorm:"uniqueIndex:idx_doctor_slot"`
	AppointmentID uint
}
