package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"wanderlist-backend-go/internal/models"
)

const resourcesCollection = "photos"

// firestoreResourceRepository implements ResourceRepository using Firestore.
type firestoreResourceRepository struct {
	client *firestore.Client
}

// NewFirestoreResourceRepository creates a new ResourceRepository backed by Firestore.
func NewFirestoreResourceRepository(client *firestore.Client) ResourceRepository {
	if client == nil {
		panic("Firestore client is not initialized for ResourceRepository")
	}
	return &firestoreResourceRepository{client: client}
}

// Create adds a resource with an auto-generated ID. An empty tier is stored as private.
// It is the seeding hook for the external upload service, which owns upload
// mechanics and calls it once per stored photo; the API only reads and re-tiers.
func (r *firestoreResourceRepository) Create(ctx context.Context, resource *models.ShareableResource) (string, error) {
	if resource.OwnerID == "" {
		return "", errors.New("ownerID cannot be empty for Create operation")
	}
	if resource.Visibility == "" {
		resource.Visibility = models.VisibilityPrivate
	}
	docRef := r.client.Collection(resourcesCollection).NewDoc()
	if _, err := docRef.Create(ctx, resource); err != nil {
		return "", fmt.Errorf("failed to create resource: %w", err)
	}
	resource.ID = docRef.ID
	return docRef.ID, nil
}

// GetByID retrieves a resource by its ID.
func (r *firestoreResourceRepository) GetByID(ctx context.Context, id string) (*models.ShareableResource, error) {
	if id == "" {
		return nil, errors.New("resource ID cannot be empty for GetByID operation")
	}
	snap, err := r.client.Collection(resourcesCollection).Doc(id).Get(ctx)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, fmt.Errorf("resource '%s': %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get resource '%s': %w", id, err)
	}
	var resource models.ShareableResource
	if err := snap.DataTo(&resource); err != nil {
		return nil, fmt.Errorf("failed to decode resource '%s': %w", id, err)
	}
	resource.ID = snap.Ref.ID
	return &resource, nil
}

// ListByPlace returns every resource attached to a place, regardless of tier.
// Visibility filtering is the caller's job.
func (r *firestoreResourceRepository) ListByPlace(ctx context.Context, placeID string) ([]*models.ShareableResource, error) {
	if placeID == "" {
		return nil, errors.New("placeID cannot be empty for ListByPlace operation")
	}
	iter := r.client.Collection(resourcesCollection).Where("placeId", "==", placeID).Documents(ctx)
	defer iter.Stop()

	var resources []*models.ShareableResource
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate resources for place '%s': %w", placeID, err)
		}
		var resource models.ShareableResource
		if err := doc.DataTo(&resource); err != nil {
			return nil, fmt.Errorf("failed to decode resource '%s': %w", doc.Ref.ID, err)
		}
		resource.ID = doc.Ref.ID
		resources = append(resources, &resource)
	}
	return resources, nil
}

// UpdateVisibility overwrites the tier of an existing resource.
func (r *firestoreResourceRepository) UpdateVisibility(ctx context.Context, id string, tier models.VisibilityTier) error {
	_, err := r.client.Collection(resourcesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "visibility", Value: tier},
	})
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return fmt.Errorf("resource '%s': %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to update visibility of '%s': %w", id, err)
	}
	return nil
}
