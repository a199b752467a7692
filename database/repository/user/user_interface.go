package userRepo

import (
	"context"

	"voicedesk/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByPhone retrieves a user by its E.164 phone number.
	// Returns (nil, nil) when no user exists for that number.
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// UpsertByPhone creates a user for the phone number, or updates the
	// stored name if one already exists, and returns the stored record.
	UpsertByPhone(ctx context.Context, fullName, phone string) (*models.User, error)
}
