// Package ledger owns slot occupancy. Every read or write of a doctor's
// booked slots and the appointment records referencing them goes through
// here, so a reserve and a release for the same doctor can never interleave.
package ledger

import (
	"care-connect/models"
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Requester roles for Release authorization.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// StatusValid is the normalized gateway status that marks a payment
// confirmed. Anything else records a failure and leaves payment unset.
const StatusValid = "VALID"

type Ledger struct {
	db *gorm.DB

	mu      sync.Mutex
	doctors map[uint]*sync.Mutex
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{
		db:      db,
		doctors: make(map[uint]*sync.Mutex),
	}
}

// doctorLock returns the mutex serializing all slot mutations for one
// doctor. Different doctors proceed fully in parallel; the unique index on
// booked_slots backs this up across processes.
func (l *Ledger) doctorLock(doctorID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.doctors[doctorID]
	if !ok {
		m = &sync.Mutex{}
		l.doctors[doctorID] = m
	}
	return m
}

// Reserve claims (slotDate, slotTime) for patientID with doctorID and
// creates the appointment record, both in one transaction. The slot insert
// is conditional on the unique (doctor, date, time) index, so of two
// concurrent reserves for the same slot exactly one wins.
func (l *Ledger) Reserve(ctx context.Context, doctorID, patientID uint, slotDate, slotTime string) (*models.Appointment, error) {
	lock := l.doctorLock(doctorID)
	lock.Lock()
	defer lock.Unlock()

	var appointment models.Appointment

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.First(&doctor, doctorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDoctorNotFound
			}
			return err
		}
		if !doctor.Available {
			return ErrDoctorUnavailable
		}

		// A patient cannot hold two live appointments at the same time,
		// even with different doctors.
		var clash int64
		if err := tx.Model(&models.Appointment{}).
			Where("patient_id = ? AND slot_date = ? AND slot_time = ? AND cancelled = ?", patientID, slotDate, slotTime, false).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrDuplicateBooking
		}

		appointment = models.Appointment{
			PatientID:     patientID,
			DoctorID:      doctorID,
			SlotDate:      slotDate,
			SlotTime:      slotTime,
			Amount:        doctor.Fees,
			Cancelled:     false,
			Payment:       false,
			PaymentStatus: "Pending",
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}

		slot := models.BookedSlot{
			DoctorID:      doctorID,
			SlotDate:      slotDate,
			SlotTime:      slotTime,
			AppointmentID: appointment.AppointmentID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&slot)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the slot to an earlier booking; the transaction rolls
			// back and the appointment record above is discarded.
			return ErrSlotTaken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Release cancels an appointment and frees its slot. The slot delete is
// idempotent: a slot already freed is not an error, but cancelling twice
// reports ErrAlreadyCancelled.
func (l *Ledger) Release(ctx context.Context, appointmentID, requesterID uint, role string) error {
	var probe models.Appointment
	if err := l.db.WithContext(ctx).First(&probe, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	lock := l.doctorLock(probe.DoctorID)
	lock.Lock()
	defer lock.Unlock()

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		switch role {
		case RolePatient:
			if appointment.PatientID != requesterID {
				return ErrUnauthorized
			}
		case RoleDoctor:
			if appointment.DoctorID != requesterID {
				return ErrUnauthorized
			}
		case RoleAdmin:
		default:
			return ErrUnauthorized
		}

		if appointment.Cancelled {
			return ErrAlreadyCancelled
		}

		if err := tx.Model(&appointment).Update("cancelled", true).Error; err != nil {
			return err
		}

		return tx.Where("doctor_id = ? AND slot_date = ? AND slot_time = ?",
			appointment.DoctorID, appointment.SlotDate, appointment.SlotTime).
			Delete(&models.BookedSlot{}).Error
	})
}

// ConfirmPayment records the gateway verdict for the appointment carrying
// transactionID. Repeated calls with the same arguments settle on the same
// state. Slot occupancy is never touched here: payment and reservation are
// orthogonal, and a paid appointment can still be cancelled later.
func (l *Ledger) ConfirmPayment(ctx context.Context, transactionID, externalStatus string) error {
	// Appointments that never initiated a payment carry an empty
	// transaction id, so an empty lookup must not match them.
	if transactionID == "" {
		return ErrAppointmentNotFound
	}

	var appointment models.Appointment
	if err := l.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	if externalStatus != StatusValid {
		if appointment.Payment {
			// A confirmed payment is not rolled back by a stray failure
			// callback.
			return nil
		}
		return l.db.WithContext(ctx).Model(&appointment).
			Update("payment_status", "Failed").Error
	}

	if appointment.Payment {
		return nil
	}
	return l.db.WithContext(ctx).Model(&appointment).Updates(map[string]interface{}{
		"payment":        true,
		"payment_status": "Success",
	}).Error
}

// SlotsBooked materializes the date -> booked times map for one doctor, the
// shape the doctor documents expose over the API.
func (l *Ledger) SlotsBooked(ctx context.Context, doctorID uint) (map[string][]string, error) {
	var slots []models.BookedSlot
	if err := l.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("slot_date, slot_time").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	booked := make(map[string][]string)
	for _, s := range slots {
		booked[s.SlotDate] = append(booked[s.SlotDate], s.SlotTime)
	}
	return booked, nil
}
