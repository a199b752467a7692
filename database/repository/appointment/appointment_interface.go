package appointmentRepo

import (
	"context"
	"errors"

	"voicedesk/models"
)

// ErrDuplicateCallID is returned by Create when an appointment already
// exists for the same source call ID.
var ErrDuplicateCallID = errors.New("appointment already exists for call id")

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a new appointment. Returns ErrDuplicateCallID when an
	// appointment with the same source call ID already exists.
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByCallID retrieves the appointment created for a call.
	// Returns (nil, nil) when none exists.
	GetByCallID(ctx context.Context, callID string) (*models.Appointment, error)
	// SetExternalEventID records the calendar-sync event identifier.
	SetExternalEventID(ctx context.Context, apptID, eventID string) error
}
