package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"wanderlist-backend-go/internal/models"
)

const activitiesCollection = "activities"

// firestoreActivityRepository implements ActivityRepository using Firestore.
type firestoreActivityRepository struct {
	client *firestore.Client
}

// NewFirestoreActivityRepository creates a new ActivityRepository backed by Firestore.
func NewFirestoreActivityRepository(client *firestore.Client) ActivityRepository {
	if client == nil {
		panic("Firestore client is not initialized for ActivityRepository")
	}
	return &firestoreActivityRepository{client: client}
}

// Create appends an activity record with an auto-generated ID.
func (r *firestoreActivityRepository) Create(ctx context.Context, activity models.Activity) (string, error) {
	docRef, _, err := r.client.Collection(activitiesCollection).Add(ctx, activity)
	if err != nil {
		return "", fmt.Errorf("failed to create activity '%s': %w", activity.Action, err)
	}
	return docRef.ID, nil
}
