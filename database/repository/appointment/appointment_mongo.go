package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"voicedesk/database"
	"voicedesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	coll := database.MongoClient.Database("voicedesk").Collection("appointments")
	repo := &MongoAppointmentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
// The unique sourceCallId index is what makes finalize idempotent.
func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sourceCallId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new appointment record.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCallID
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByCallID retrieves the appointment created for a call.
func (r *MongoAppointmentRepo) GetByCallID(ctx context.Context, callID string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"sourceCallId": callID}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment for call %s: %w", callID, err)
	}
	return &appt, nil
}

// SetExternalEventID records the calendar-sync event identifier.
func (r *MongoAppointmentRepo) SetExternalEventID(ctx context.Context, apptID, eventID string) error {
	update := bson.M{"$set": bson.M{"externalEventId": eventID}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": apptID}, update); err != nil {
		return fmt.Errorf("failed to set external event id on appointment %s: %w", apptID, err)
	}
	return nil
}
