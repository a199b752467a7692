package booking

import (
	"context"
	"encoding/json"
	"time"

	"voicedesk/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentReminder = "appointment:reminder"

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	Phone         string    `json:"phone"`
	FullName      string    `json:"fullName"`
	StartTimeUTC  time.Time `json:"startTimeUtc"`
}

// ReminderScheduler enqueues a reminder to fire before the appointment.
type ReminderScheduler interface {
	Schedule(ctx context.Context, appt *models.Appointment, user *models.User) error
}

// AsynqReminderScheduler schedules reminders on the Redis-backed queue.
type AsynqReminderScheduler struct {
	Client *asynq.Client
	Lead   time.Duration // how long before the start the reminder fires
	Logger *zap.Logger
}

// Schedule enqueues the reminder task. Appointments starting inside the
// lead window get an immediate reminder.
func (s *AsynqReminderScheduler) Schedule(ctx context.Context, appt *models.Appointment, user *models.User) error {
	payload, err := json.Marshal(ReminderPayload{
		AppointmentID: appt.ID,
		Phone:         user.Phone,
		FullName:      user.FullName,
		StartTimeUTC:  appt.StartTimeUTC,
	})
	if err != nil {
		return err
	}

	fireAt := appt.StartTimeUTC.Add(-s.Lead)
	opts := []asynq.Option{asynq.MaxRetry(3)}
	if fireAt.After(time.Now().UTC()) {
		opts = append(opts, asynq.ProcessAt(fireAt))
	}

	task := asynq.NewTask(TypeAppointmentReminder, payload)
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}
	s.Logger.Info("appointment reminder scheduled",
		zap.String("appointmentId", appt.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
