package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/models"
)

// VisitInput carries the optional details recorded when a place is visited.
type VisitInput struct {
	Rating    *int
	Weather   *models.WeatherSnapshot
	VisitedAt *time.Time // Defaults to now
}

// bucketListService implements the BucketListService interface.
// Lifecycle: want_to_visit -> visited and want_to_visit -> skipped. Both targets are terminal.
type bucketListService struct {
	collections CollectionService
	items       db.ItemRepository
	guard       AuthGuard
	activity    ActivityRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// NewBucketListService creates a new BucketListService.
func NewBucketListService(collections CollectionService, items db.ItemRepository, guard AuthGuard, activity ActivityRecorder, logger *zap.Logger) BucketListService {
	return &bucketListService{
		collections: collections,
		items:       items,
		guard:       guard,
		activity:    activity,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Add puts a place at the end of the principal's bucket list. A place can only be listed once.
func (s *bucketListService) Add(ctx context.Context, principal *models.Principal, placeID string) (string, error) {
	if principal == nil {
		return "", ErrAuthenticationRequired
	}
	return s.collections.AddItem(ctx, principal, AddItemInput{
		OwnerID:   principal.ID,
		Scope:     models.BucketList(),
		UniqueKey: placeID,
		PlaceID:   placeID,
		Status:    models.StatusWantToVisit,
	})
}

func (s *bucketListService) List(ctx context.Context, principal *models.Principal) ([]*models.RankedItem, error) {
	if principal == nil {
		return []*models.RankedItem{}, nil
	}
	return s.collections.ListByScope(ctx, principal, principal.ID, models.BucketList())
}

func (s *bucketListService) MarkVisited(ctx context.Context, principal *models.Principal, itemID string, in VisitInput) (*models.RankedItem, error) {
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, validationError("rating must be between 1 and 5, got %d", *in.Rating)
	}
	visitedAt := s.now()
	if in.VisitedAt != nil {
		visitedAt = in.VisitedAt.UTC()
	}
	update := &models.RankedItem{
		Status:    models.StatusVisited,
		VisitedAt: &visitedAt,
		Rating:    in.Rating,
		Weather:   in.Weather,
	}
	item, err := s.transition(ctx, principal, itemID, update)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"placeId": item.PlaceID}
	if in.Rating != nil {
		details["rating"] = *in.Rating
	}
	s.activity.Record(ctx, models.Activity{
		PrincipalID: principal.ID,
		Action:      models.ActivityPlaceVisited,
		TargetType:  "ITEM",
		TargetID:    item.ID,
		Details:     details,
	})
	return item, nil
}

func (s *bucketListService) MarkSkipped(ctx context.Context, principal *models.Principal, itemID string) (*models.RankedItem, error) {
	item, err := s.transition(ctx, principal, itemID, &models.RankedItem{Status: models.StatusSkipped})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, models.Activity{
		PrincipalID: principal.ID,
		Action:      models.ActivityPlaceSkipped,
		TargetType:  "ITEM",
		TargetID:    item.ID,
		Details:     map[string]interface{}{"placeId": item.PlaceID},
	})
	return item, nil
}

// transition moves an owned bucket-list item out of want_to_visit.
func (s *bucketListService) transition(ctx context.Context, principal *models.Principal, itemID string, update *models.RankedItem) (*models.RankedItem, error) {
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
	if !item.IsBucketList() {
		return nil, validationError("only bucket list items have a visit status")
	}
	if item.Status != models.StatusWantToVisit {
		return nil, fmt.Errorf("%w: '%s' -> '%s'", ErrInvalidTransition, item.Status, update.Status)
	}

	err = s.items.TransitionStatus(ctx, itemID, models.StatusWantToVisit, update)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrPreconditionFailed):
			return nil, fmt.Errorf("%w: item '%s' changed concurrently", ErrInvalidTransition, itemID)
		case errors.Is(err, db.ErrNotFound):
			return nil, fmt.Errorf("%w: item '%s'", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to update item '%s': %w", itemID, err)
	}

	item.Status = update.Status
	item.VisitedAt = update.VisitedAt
	item.Rating = update.Rating
	item.Weather = update.Weather
	item.UpdatedAt = s.now()
	s.logger.Debug("Bucket list item transitioned",
		zap.String("itemId", itemID),
		zap.String("status", string(update.Status)))
	return item, nil
}
