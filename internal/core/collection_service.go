package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/models"
)

// MaxReorderBatch bounds the number of IDs in one reorder; Firestore commits at most 500 writes.
const MaxReorderBatch = 500

// AddItemInput describes a new ranked item.
// OwnerID defaults to the principal. Rank is assigned after the scope's current maximum when nil.
// A non-empty UniqueKey must not already be used by another item of the owner.
type AddItemInput struct {
	OwnerID   string
	Scope     models.Scope
	Rank      *int64
	UniqueKey string
	PlaceID   string
	Status    models.LifecycleStatus
}

// collectionService implements the CollectionService interface.
type collectionService struct {
	items    db.ItemRepository
	guard    AuthGuard
	activity ActivityRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(items db.ItemRepository, guard AuthGuard, activity ActivityRecorder, logger *zap.Logger) CollectionService {
	return &collectionService{
		items:    items,
		guard:    guard,
		activity: activity,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// nextRank returns one past the highest rank among siblings, or 1 for an empty scope.
func nextRank(siblings []*models.RankedItem) int64 {
	var highest int64
	for _, s := range siblings {
		if s.Rank > highest {
			highest = s.Rank
		}
	}
	return highest + 1
}

func validateWriteScope(scope models.Scope) error {
	if scope.IsBucketList() {
		if scope.Day != nil {
			return validationError("bucket list items have no day")
		}
		return nil
	}
	if scope.Day == nil {
		return validationError("a day is required for itinerary items")
	}
	if *scope.Day < 1 {
		return validationError("day must be at least 1, got %d", *scope.Day)
	}
	return nil
}

func validateRank(rank int64) error {
	if rank < 0 {
		return validationError("rank cannot be negative, got %d", rank)
	}
	return nil
}

// loadOwned fetches an item and checks that principal owns it.
func (s *collectionService) loadOwned(ctx context.Context, principal *models.Principal, itemID string) (*models.RankedItem, error) {
	if principal == nil {
		return nil, ErrAuthenticationRequired
	}
	if itemID == "" {
		return nil, validationError("item ID is required")
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: item '%s'", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to load item '%s': %w", itemID, err)
	}
	if err := s.guard.RequireResourceOwnership(principal, item.OwnerID, "item", itemID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *collectionService) AddItem(ctx context.Context, principal *models.Principal, in AddItemInput) (string, error) {
	if principal == nil {
		return "", ErrAuthenticationRequired
	}
	if in.OwnerID == "" {
		in.OwnerID = principal.ID
	}
	if err := s.guard.RequireOwnership(principal, in.OwnerID); err != nil {
		return "", err
	}
	if in.PlaceID == "" {
		return "", validationError("place ID is required")
	}
	if err := validateWriteScope(in.Scope); err != nil {
		return "", err
	}
	if in.Rank != nil {
		if err := validateRank(*in.Rank); err != nil {
			return "", err
		}
	}
	if in.Status != "" && !in.Scope.IsBucketList() {
		return "", validationError("only bucket list items carry a lifecycle status")
	}

	now := s.now()
	item := &models.RankedItem{
		OwnerID:   in.OwnerID,
		TripID:    in.Scope.TripID,
		GroupKey:  in.Scope.Day,
		PlaceID:   in.PlaceID,
		UniqueKey: in.UniqueKey,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.items.Create(ctx, item, func(item *models.RankedItem, siblings []*models.RankedItem, duplicate bool) error {
		if duplicate {
			return fmt.Errorf("%w: key '%s'", ErrDuplicate, item.UniqueKey)
		}
		if in.Rank != nil {
			item.Rank = *in.Rank
		} else {
			item.Rank = nextRank(siblings)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return "", err
		}
		if errors.Is(err, db.ErrAlreadyExists) {
			return "", fmt.Errorf("%w: key '%s'", ErrDuplicate, in.UniqueKey)
		}
		return "", fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Debug("Item added",
		zap.String("itemId", id),
		zap.String("ownerId", item.OwnerID),
		zap.Stringer("scope", in.Scope),
		zap.Int64("rank", item.Rank))
	s.activity.Record(ctx, models.Activity{
		PrincipalID: principal.ID,
		Action:      models.ActivityItemAdded,
		TargetType:  "ITEM",
		TargetID:    id,
		Details:     map[string]interface{}{"placeId": item.PlaceID, "scope": in.Scope.String()},
	})
	return id, nil
}

func (s *collectionService) SetRank(ctx context.Context, principal *models.Principal, itemID string, rank int64) error {
	if err := validateRank(rank); err != nil {
		return err
	}
	item, err := s.loadOwned(ctx, principal, itemID)
	if err != nil {
		return err
	}
	return s.place(ctx, db.Placement{ID: item.ID, Rank: rank})
}

func (s *collectionService) SetGroupAndRank(ctx context.Context, principal *models.Principal, itemID string, day int, rank int64) error {
	if err := validateRank(rank); err != nil {
		return err
	}
	item, err := s.loadOwned(ctx, principal, itemID)
	if err != nil {
		return err
	}
	if item.IsBucketList() {
		return validationError("bucket list items cannot move between days")
	}
	scope := models.TripDay(item.TripID, day)
	if err := validateWriteScope(scope); err != nil {
		return err
	}
	return s.place(ctx, db.Placement{ID: item.ID, Rank: rank, Scope: &scope})
}

func (s *collectionService) place(ctx context.Context, p db.Placement) error {
	if err := s.items.Place(ctx, p); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: item '%s'", ErrNotFound, p.ID)
		}
		return fmt.Errorf("failed to place item '%s': %w", p.ID, err)
	}
	return nil
}

// Reorder assigns rank i+1 to the item at position i of orderedIDs.
// IDs that do not exist, belong to another owner or to another collection are skipped.
// Items of the scope that are not listed keep their current rank, so a partial list may
// leave duplicate or non-contiguous ranks; listings sort and never rely on contiguity.
// For itineraries, listed items from other days of the same trip move into the scope's day.
func (s *collectionService) Reorder(ctx context.Context, principal *models.Principal, ownerID string, scope models.Scope, orderedIDs []string) error {
	if principal == nil {
		return ErrAuthenticationRequired
	}
	if err := s.guard.RequireOwnership(principal, ownerID); err != nil {
		return err
	}
	if err := validateWriteScope(scope); err != nil {
		return err
	}
	if len(orderedIDs) > MaxReorderBatch {
		return validationError("at most %d items can be reordered at once, got %d", MaxReorderBatch, len(orderedIDs))
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if id == "" {
			return validationError("item IDs cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return validationError("item '%s' is listed more than once", id)
		}
		seen[id] = struct{}{}
	}
	if len(orderedIDs) == 0 {
		return nil
	}

	written, err := s.items.Reorder(ctx, orderedIDs, func(existing map[string]*models.RankedItem) ([]db.Placement, error) {
		return planReorder(ownerID, scope, orderedIDs, existing), nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder '%s': %w", scope, err)
	}
	if skipped := len(orderedIDs) - written; skipped > 0 {
		s.logger.Debug("Reorder skipped items",
			zap.String("ownerId", ownerID),
			zap.Stringer("scope", scope),
			zap.Int("skipped", skipped))
	}
	return nil
}

func planReorder(ownerID string, scope models.Scope, orderedIDs []string, existing map[string]*models.RankedItem) []db.Placement {
	placements := make([]db.Placement, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		item, ok := existing[id]
		if !ok || item.OwnerID != ownerID {
			continue
		}
		p := db.Placement{ID: id, Rank: int64(i + 1)}
		if scope.IsBucketList() {
			if !item.IsBucketList() {
				continue
			}
		} else {
			if item.TripID != scope.TripID {
				continue
			}
			if item.GroupKey == nil || *item.GroupKey != *scope.Day {
				target := scope
				p.Scope = &target
			}
		}
		placements = append(placements, p)
	}
	return placements
}

func (s *collectionService) RemoveItem(ctx context.Context, principal *models.Principal, itemID string) error {
	item, err := s.loadOwned(ctx, principal, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: item '%s'", ErrNotFound, itemID)
		}
		return fmt.Errorf("failed to remove item '%s': %w", itemID, err)
	}
	return nil
}

// ListByScope returns the owner's items in ascending rank. A whole-trip scope is
// ordered by day, then rank. Callers other than the owner get an empty list.
func (s *collectionService) ListByScope(ctx context.Context, principal *models.Principal, ownerID string, scope models.Scope) ([]*models.RankedItem, error) {
	if !s.guard.CanRead(principal, ownerID) {
		return []*models.RankedItem{}, nil
	}
	items, err := s.items.ListByScope(ctx, ownerID, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", scope, err)
	}
	sortItems(items)
	return items, nil
}

// sortItems orders by day (absent first), then rank, creation time and ID.
// Within a single scope the day is constant, so this is a plain rank order.
func sortItems(items []*models.RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if dayA, dayB := dayOf(a), dayOf(b); dayA != dayB {
			return dayA < dayB
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func dayOf(item *models.RankedItem) int {
	if item.GroupKey == nil {
		return 0
	}
	return *item.GroupKey
}
