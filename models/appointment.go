package models

import "time"

// AppointmentStatus is the lifecycle state of a persisted appointment.
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCancelled = "cancelled"
)

// User represents a caller known to the system, keyed by phone number.
type User struct {
	ID        string    `bson:"id" json:"id"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Phone     string    `bson:"phone" json:"phone"` // E.164, unique
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Appointment is a finalized booking. SourceCallID is unique so repeated
// finalize calls for the same call never create a second row.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	StartTimeUTC    time.Time `bson:"startTimeUtc" json:"startTimeUtc"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Status          string    `bson:"status" json:"status"`
	SourceCallID    string    `bson:"sourceCallId" json:"sourceCallId"`
	ExternalEventID string    `bson:"externalEventId,omitempty" json:"externalEventId,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
