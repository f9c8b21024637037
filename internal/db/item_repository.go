package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"wanderlist-backend-go/internal/models"
)

const itemsCollection = "rankedItems"

// firestoreItemRepository implements ItemRepository using Firestore.
// Items of every owner and scope share one collection; lookups go through the
// (ownerId, scopeKey), (ownerId, tripId) and (ownerId, uniqueKey) indexes.
type firestoreItemRepository struct {
	client *firestore.Client
}

// NewFirestoreItemRepository creates a new ItemRepository backed by Firestore.
func NewFirestoreItemRepository(client *firestore.Client) ItemRepository {
	if client == nil {
		panic("Firestore client is not initialized for ItemRepository")
	}
	return &firestoreItemRepository{client: client}
}

func (r *firestoreItemRepository) col() *firestore.CollectionRef {
	return r.client.Collection(itemsCollection)
}

func decodeItem(snap *firestore.DocumentSnapshot) (*models.RankedItem, error) {
	var item models.RankedItem
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode item '%s': %w", snap.Ref.ID, err)
	}
	item.ID = snap.Ref.ID
	return &item, nil
}

func decodeItems(snaps []*firestore.DocumentSnapshot) ([]*models.RankedItem, error) {
	items := make([]*models.RankedItem, 0, len(snaps))
	for _, snap := range snaps {
		item, err := decodeItem(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *firestoreItemRepository) scopeQuery(ownerID string, scope models.Scope) firestore.Query {
	q := r.col().Where("ownerId", "==", ownerID)
	if key := scope.Key(); key != "" {
		return q.Where("scopeKey", "==", key)
	}
	return q.Where("tripId", "==", scope.TripID)
}

// Create inserts a new item. The uniqueness check, the read of the scope's current
// items and the write happen in a single transaction, so two concurrent inserts in the
// same scope cannot both observe the same maximum rank.
func (r *firestoreItemRepository) Create(ctx context.Context, item *models.RankedItem, prepare PrepareCreate) (string, error) {
	if item.OwnerID == "" {
		return "", errors.New("ownerID cannot be empty for Create operation")
	}
	scope := models.ScopeOf(item)
	item.ScopeKey = scope.Key()
	if item.ScopeKey == "" {
		return "", errors.New("itinerary items need a day to be created")
	}

	docRef := r.col().NewDoc()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		duplicate := false
		if item.UniqueKey != "" {
			dupSnaps, err := tx.Documents(r.col().
				Where("ownerId", "==", item.OwnerID).
				Where("uniqueKey", "==", item.UniqueKey).
				Limit(1)).GetAll()
			if err != nil {
				return fmt.Errorf("failed to check unique key: %w", err)
			}
			duplicate = len(dupSnaps) > 0
		}

		siblingSnaps, err := tx.Documents(r.scopeQuery(item.OwnerID, scope)).GetAll()
		if err != nil {
			return fmt.Errorf("failed to read scope '%s': %w", scope, err)
		}
		siblings, err := decodeItems(siblingSnaps)
		if err != nil {
			return err
		}

		if err := prepare(item, siblings, duplicate); err != nil {
			return err
		}
		return tx.Create(docRef, item)
	})
	if err != nil {
		if sentinel := translate(err); sentinel != nil {
			return "", fmt.Errorf("failed to create item: %w", sentinel)
		}
		return "", err
	}
	item.ID = docRef.ID
	return docRef.ID, nil
}

// GetByID retrieves an item by its ID.
func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*models.RankedItem, error) {
	if id == "" {
		return nil, errors.New("item ID cannot be empty for GetByID operation")
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, fmt.Errorf("item '%s': %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item '%s': %w", id, err)
	}
	return decodeItem(snap)
}

// ListByScope returns the owner's items in scope. Ordering is left to the caller.
func (r *firestoreItemRepository) ListByScope(ctx context.Context, ownerID string, scope models.Scope) ([]*models.RankedItem, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for ListByScope operation")
	}
	snaps, err := r.scopeQuery(ownerID, scope).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list items of '%s' in '%s': %w", ownerID, scope, err)
	}
	return decodeItems(snaps)
}

func placementUpdates(p Placement) []firestore.Update {
	updates := []firestore.Update{
		{Path: "rank", Value: p.Rank},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if p.Scope != nil {
		updates = append(updates,
			firestore.Update{Path: "tripId", Value: p.Scope.TripID},
			firestore.Update{Path: "day", Value: p.Scope.Day},
			firestore.Update{Path: "scopeKey", Value: p.Scope.Key()},
		)
	}
	return updates
}

// Place overwrites an item's rank and, when requested, its scope. Siblings are not touched.
func (r *firestoreItemRepository) Place(ctx context.Context, placement Placement) error {
	if placement.ID == "" {
		return errors.New("item ID cannot be empty for Place operation")
	}
	_, err := r.col().Doc(placement.ID).Update(ctx, placementUpdates(placement))
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return fmt.Errorf("item '%s': %w", placement.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to place item '%s': %w", placement.ID, err)
	}
	return nil
}

// Reorder applies a whole reorder batch atomically: either every planned placement
// is written or none is.
func (r *firestoreItemRepository) Reorder(ctx context.Context, ids []string, plan PlanOrder) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.col().Doc(id))
	}

	written := 0
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		written = 0
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return fmt.Errorf("failed to read items for reorder: %w", err)
		}
		existing := make(map[string]*models.RankedItem, len(snaps))
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			item, err := decodeItem(snap)
			if err != nil {
				return err
			}
			existing[item.ID] = item
		}

		placements, err := plan(existing)
		if err != nil {
			return err
		}
		for _, p := range placements {
			if err := tx.Update(r.col().Doc(p.ID), placementUpdates(p)); err != nil {
				return fmt.Errorf("failed to stage rank for '%s': %w", p.ID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// TransitionStatus performs a compare-and-set on the item's lifecycle status.
func (r *firestoreItemRepository) TransitionStatus(ctx context.Context, id string, from models.LifecycleStatus, update *models.RankedItem) error {
	ref := r.col().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if errors.Is(translate(err), ErrNotFound) {
				return fmt.Errorf("item '%s': %w", id, ErrNotFound)
			}
			return err
		}
		current, err := decodeItem(snap)
		if err != nil {
			return err
		}
		if current.Status != from {
			return fmt.Errorf("item '%s' is '%s', expected '%s': %w", id, current.Status, from, ErrPreconditionFailed)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: update.Status},
			{Path: "visitedAt", Value: update.VisitedAt},
			{Path: "rating", Value: update.Rating},
			{Path: "weather", Value: update.Weather},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to transition item '%s': %w", id, err)
	}
	return nil
}

// Delete removes an item. Remaining ranks are not compacted.
func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("item ID cannot be empty for Delete operation")
	}
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return fmt.Errorf("item '%s' not found for deletion: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete item '%s': %w", id, err)
	}
	return nil
}
