package services

import "errors"

// Sentinel errors returned by the scheduling and ledger services. Controllers
// translate them to HTTP codes; everything here is detected before any write,
// so a rejected request never leaves an appointment or balance half-updated.
var (
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrSlotConflict         = errors.New("time slot overlaps an existing appointment")
	ErrInvalidAmount        = errors.New("settlement amount must be greater than zero")
	ErrPatientNotFound      = errors.New("patient not found or inactive")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
)
