package ledger

import "errors"

// Typed errors the booking and cancellation flows report verbatim to the
// client. Conflicts are never swallowed or retried here.
var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorUnavailable   = errors.New("doctor not available")
	ErrSlotTaken           = errors.New("slot not available")
	ErrDuplicateBooking    = errors.New("patient already has an appointment at this time")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyCancelled    = errors.New("appointment already cancelled")
	ErrUnauthorized        = errors.New("not authorized for this appointment")
)
