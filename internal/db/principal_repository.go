package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	"wanderlist-backend-go/internal/models"
)

const principalsCollection = "users"

// firestorePrincipalRepository implements PrincipalRepository using Firestore.
type firestorePrincipalRepository struct {
	client *firestore.Client
}

// NewFirestorePrincipalRepository creates a new PrincipalRepository backed by Firestore.
func NewFirestorePrincipalRepository(client *firestore.Client) PrincipalRepository {
	if client == nil {
		panic("Firestore client is not initialized for PrincipalRepository")
	}
	return &firestorePrincipalRepository{client: client}
}

// Create adds a principal document keyed by its ID (the Firebase Auth UID).
func (r *firestorePrincipalRepository) Create(ctx context.Context, principal *models.Principal) error {
	if principal.ID == "" {
		return errors.New("principal ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(principalsCollection).Doc(principal.ID).Create(ctx, principal)
	if err != nil {
		if sentinel := translate(err); sentinel != nil {
			return fmt.Errorf("failed to create principal '%s': %w", principal.ID, sentinel)
		}
		return fmt.Errorf("failed to create principal '%s': %w", principal.ID, err)
	}
	return nil
}

// GetByID retrieves a principal by its ID.
func (r *firestorePrincipalRepository) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	if id == "" {
		return nil, errors.New("principal ID cannot be empty for GetByID operation")
	}
	snap, err := r.client.Collection(principalsCollection).Doc(id).Get(ctx)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, fmt.Errorf("principal '%s': %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get principal '%s': %w", id, err)
	}
	var principal models.Principal
	if err := snap.DataTo(&principal); err != nil {
		return nil, fmt.Errorf("failed to decode principal '%s': %w", id, err)
	}
	principal.ID = snap.Ref.ID
	return &principal, nil
}

// GetByIDs fetches several principals in one round trip.
func (r *firestorePrincipalRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Principal, error) {
	out := make(map[string]*models.Principal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection(principalsCollection).Doc(id))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get principals: %w", err)
	}
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var principal models.Principal
		if err := snap.DataTo(&principal); err != nil {
			return nil, fmt.Errorf("failed to decode principal '%s': %w", snap.Ref.ID, err)
		}
		principal.ID = snap.Ref.ID
		out[principal.ID] = &principal
	}
	return out, nil
}
