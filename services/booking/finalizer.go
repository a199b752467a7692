package booking

import (
	"context"
	"time"

	appointmentRepo "voicedesk/database/repository/appointment"
	userRepo "voicedesk/database/repository/user"
	"voicedesk/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Finalizer converts a completed conversation session into a persisted
// User + Appointment pair. Repeated calls for the same call ID return the
// appointment created by the first call.
type Finalizer interface {
	Finalize(ctx context.Context, sess *models.ConversationSession) (*models.Appointment, error)
}

// DefaultFinalizer implements Finalizer against the Mongo repositories.
type DefaultFinalizer struct {
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Calendar     CalendarSync
	Reminders    ReminderScheduler
	Logger       *zap.Logger
}

// Finalize upserts the user by phone and creates the appointment keyed by
// the call ID. Idempotency rides on the unique sourceCallId index, not on
// locking: a duplicate insert is answered with the existing record.
func (f *DefaultFinalizer) Finalize(ctx context.Context, sess *models.ConversationSession) (*models.Appointment, error) {
	if !sess.ReadyToFinalize() {
		return nil, ErrIncompleteSession
	}

	// A retried confirm may already have booked this call.
	if existing, err := f.Appointments.GetByCallID(ctx, sess.CallID); err == nil && existing != nil {
		f.Logger.Info("finalize repeated for call, returning existing appointment",
			zap.String("callId", sess.CallID),
			zap.String("appointmentId", existing.ID))
		return existing, nil
	}

	user, err := f.Users.UpsertByPhone(ctx, sess.Fields.FullName, sess.Fields.Phone)
	if err != nil {
		f.Logger.Error("user upsert failed", zap.String("callId", sess.CallID), zap.Error(err))
		return nil, ErrBookingUnavailable
	}

	appt := &models.Appointment{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		StartTimeUTC:    sess.Fields.StartTimeUTC.UTC(),
		DurationMinutes: sess.Fields.DurationMinutes,
		Status:          models.AppointmentStatusScheduled,
		SourceCallID:    sess.CallID,
		CreatedAt:       time.Now().UTC(),
	}

	if err := f.Appointments.Create(ctx, appt); err != nil {
		if err == appointmentRepo.ErrDuplicateCallID {
			// Lost the race with a concurrent finalize for the same call.
			existing, getErr := f.Appointments.GetByCallID(ctx, sess.CallID)
			if getErr != nil || existing == nil {
				f.Logger.Error("duplicate call id but existing appointment unreadable",
					zap.String("callId", sess.CallID), zap.Error(getErr))
				return nil, ErrBookingUnavailable
			}
			return existing, nil
		}
		f.Logger.Error("appointment create failed", zap.String("callId", sess.CallID), zap.Error(err))
		return nil, ErrBookingUnavailable
	}

	f.afterCreate(ctx, appt, user)
	return appt, nil
}

// afterCreate runs the best-effort post-booking steps. Neither calendar
// sync nor reminder scheduling may undo the appointment.
func (f *DefaultFinalizer) afterCreate(ctx context.Context, appt *models.Appointment, user *models.User) {
	if f.Calendar != nil {
		eventID, err := f.Calendar.CreateEvent(ctx, appt, user)
		switch {
		case err != nil:
			f.Logger.Warn("calendar sync failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		case eventID != "":
			appt.ExternalEventID = eventID
			if err := f.Appointments.SetExternalEventID(ctx, appt.ID, eventID); err != nil {
				f.Logger.Warn("failed to record calendar event id",
					zap.String("appointmentId", appt.ID), zap.Error(err))
			}
		}
	}

	if f.Reminders != nil {
		if err := f.Reminders.Schedule(ctx, appt, user); err != nil {
			f.Logger.Warn("reminder scheduling failed",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
}
