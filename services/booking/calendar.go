package booking

import (
	"context"

	"voicedesk/models"

	"go.uber.org/zap"
)

// CalendarSync pushes a finalized appointment to an external calendar and
// returns the external event identifier. Sync failure must never undo the
// appointment; callers treat it as best-effort.
type CalendarSync interface {
	CreateEvent(ctx context.Context, appt *models.Appointment, user *models.User) (string, error)
}

// NoopCalendarSync logs instead of syncing. It stands in until a real
// calendar integration is configured.
type NoopCalendarSync struct {
	Logger *zap.Logger
}

func (n *NoopCalendarSync) CreateEvent(_ context.Context, appt *models.Appointment, _ *models.User) (string, error) {
	n.Logger.Info("calendar sync disabled, skipping event creation",
		zap.String("appointmentId", appt.ID))
	return "", nil
}
