package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/models"
)

// Contributor is a distinct owner of public content, with their public profile.
type Contributor struct {
	OwnerID string         `json:"ownerId"`
	Profile models.Profile `json:"profile"`
}

// Stats are plain counts over a set of resources.
type Stats struct {
	Total            int  `json:"total"`
	PublicCount      int  `json:"publicCount"`
	HasPublicContent bool `json:"hasPublicContent"`
}

// visibilityService implements the VisibilityService interface.
// It filters rather than errors: any caller may receive a (possibly empty) visible subset.
type visibilityService struct {
	resources  db.ResourceRepository
	principals db.PrincipalRepository
	follows    db.FollowRepository
	followSets *FollowSetLoader
	guard      AuthGuard
	activity   ActivityRecorder
	logger     *zap.Logger
}

// NewVisibilityService creates a new VisibilityService.
func NewVisibilityService(
	resources db.ResourceRepository,
	principals db.PrincipalRepository,
	follows db.FollowRepository,
	followSets *FollowSetLoader,
	guard AuthGuard,
	activity ActivityRecorder,
	logger *zap.Logger,
) VisibilityService {
	return &visibilityService{
		resources:  resources,
		principals: principals,
		follows:    follows,
		followSets: followSets,
		guard:      guard,
		activity:   activity,
		logger:     logger,
	}
}

// IsVisible applies the tier rule to one resource. viewerID is nil for anonymous viewers.
func IsVisible(viewerID *string, following FollowSet, r *models.ShareableResource) bool {
	if viewerID != nil && r.OwnerID == *viewerID {
		return true
	}
	switch r.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityFollowers:
		return viewerID != nil && following.Contains(r.OwnerID)
	}
	return false
}

// FilterVisible returns the resources viewerID may see given an already loaded follow set.
// Callers that hold a follow set for the viewer can use it directly and skip the store.
func FilterVisible(viewerID *string, following FollowSet, resources []*models.ShareableResource) []*models.ShareableResource {
	visible := make([]*models.ShareableResource, 0, len(resources))
	for _, r := range resources {
		if IsVisible(viewerID, following, r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// needsFollowSet reports whether any resource's visibility depends on the follow graph.
func needsFollowSet(viewerID string, resources []*models.ShareableResource) bool {
	for _, r := range resources {
		if r.Visibility == models.VisibilityFollowers && r.OwnerID != viewerID {
			return true
		}
	}
	return false
}

// VisibleSet loads the viewer's follow set at most once and filters resources with it.
func (s *visibilityService) VisibleSet(ctx context.Context, viewerID *string, resources []*models.ShareableResource) ([]*models.ShareableResource, error) {
	if viewerID == nil || *viewerID == "" {
		return FilterVisible(nil, nil, resources), nil
	}
	var following FollowSet
	if needsFollowSet(*viewerID, resources) {
		var err error
		following, err = s.followSets.Following(ctx, *viewerID)
		if err != nil {
			return nil, err
		}
	}
	return FilterVisible(viewerID, following, resources), nil
}

// canonicalOrder sorts a copy of resources by creation time, then ID.
func canonicalOrder(resources []*models.ShareableResource) []*models.ShareableResource {
	ordered := make([]*models.ShareableResource, len(resources))
	copy(ordered, resources)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return ordered
}

// ContributorSummary returns up to limit distinct owners of public resources, in the
// order their earliest public resource was created.
func (s *visibilityService) ContributorSummary(ctx context.Context, resources []*models.ShareableResource, limit int) ([]Contributor, error) {
	if limit <= 0 {
		return []Contributor{}, nil
	}
	var owners []string
	seen := make(map[string]struct{})
	for _, r := range canonicalOrder(resources) {
		if r.Visibility != models.VisibilityPublic {
			continue
		}
		if _, ok := seen[r.OwnerID]; ok {
			continue
		}
		seen[r.OwnerID] = struct{}{}
		owners = append(owners, r.OwnerID)
		if len(owners) == limit {
			break
		}
	}

	contributors := make([]Contributor, 0, len(owners))
	if len(owners) == 0 {
		return contributors, nil
	}
	profiles, err := s.principals.GetByIDs(ctx, owners)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributor profiles: %w", err)
	}
	for _, id := range owners {
		contributors = append(contributors, Contributor{OwnerID: id, Profile: profiles[id].PublicProfile()})
	}
	return contributors, nil
}

func (s *visibilityService) AggregateStats(resources []*models.ShareableResource) Stats {
	stats := Stats{Total: len(resources)}
	for _, r := range resources {
		if r.Visibility == models.VisibilityPublic {
			stats.PublicCount++
		}
	}
	stats.HasPublicContent = stats.PublicCount > 0
	return stats
}

func (s *visibilityService) SetVisibilityTier(ctx context.Context, principal *models.Principal, resourceID string, tier models.VisibilityTier) error {
	if principal == nil {
		return ErrAuthenticationRequired
	}
	if !tier.Valid() {
		return validationError("unknown visibility tier '%s'", tier)
	}
	if resourceID == "" {
		return validationError("resource ID is required")
	}
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: photo '%s'", ErrNotFound, resourceID)
		}
		return fmt.Errorf("failed to load photo '%s': %w", resourceID, err)
	}
	if err := s.guard.RequireResourceOwnership(principal, resource.OwnerID, "photo", resourceID); err != nil {
		return err
	}
	if resource.Visibility == tier {
		return nil
	}
	if err := s.resources.UpdateVisibility(ctx, resourceID, tier); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: photo '%s'", ErrNotFound, resourceID)
		}
		return fmt.Errorf("failed to update visibility of '%s': %w", resourceID, err)
	}
	s.logger.Debug("Photo visibility changed", zap.String("photoId", resourceID), zap.String("visibility", string(tier)))
	s.activity.Record(ctx, models.Activity{
		PrincipalID: principal.ID,
		Action:      models.ActivityVisibilityChanged,
		TargetType:  "PHOTO",
		TargetID:    resourceID,
		Details:     map[string]interface{}{"from": string(resource.Visibility), "to": string(tier)},
	})
	return nil
}

// ListPlacePhotos returns the photos of a place the viewer may see, in canonical order.
func (s *visibilityService) ListPlacePhotos(ctx context.Context, viewerID *string, placeID string) ([]*models.ShareableResource, error) {
	resources, err := s.placeResources(ctx, placeID)
	if err != nil {
		return nil, err
	}
	visible, err := s.VisibleSet(ctx, viewerID, resources)
	if err != nil {
		return nil, err
	}
	return canonicalOrder(visible), nil
}

func (s *visibilityService) PlaceContributors(ctx context.Context, placeID string, limit int) ([]Contributor, error) {
	resources, err := s.placeResources(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return s.ContributorSummary(ctx, resources, limit)
}

func (s *visibilityService) PlaceStats(ctx context.Context, placeID string) (Stats, error) {
	resources, err := s.placeResources(ctx, placeID)
	if err != nil {
		return Stats{}, err
	}
	return s.AggregateStats(resources), nil
}

func (s *visibilityService) placeResources(ctx context.Context, placeID string) ([]*models.ShareableResource, error) {
	if placeID == "" {
		return nil, validationError("place ID is required")
	}
	resources, err := s.resources.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos of place '%s': %w", placeID, err)
	}
	return resources, nil
}

// Follow records principal -> followeeID and drops the principal's cached follow set.
func (s *visibilityService) Follow(ctx context.Context, principal *models.Principal, followeeID string) error {
	if principal == nil {
		return ErrAuthenticationRequired
	}
	if followeeID == "" || followeeID == principal.ID {
		return validationError("cannot follow '%s'", followeeID)
	}
	if err := s.follows.Follow(ctx, principal.ID, followeeID); err != nil {
		return fmt.Errorf("failed to follow '%s': %w", followeeID, err)
	}
	s.followSets.Invalidate(ctx, principal.ID)
	s.logger.Debug("Follow edge added", zap.String("followerId", principal.ID), zap.String("followeeId", followeeID))
	return nil
}

func (s *visibilityService) Unfollow(ctx context.Context, principal *models.Principal, followeeID string) error {
	if principal == nil {
		return ErrAuthenticationRequired
	}
	if followeeID == "" {
		return validationError("followee ID is required")
	}
	if err := s.follows.Unfollow(ctx, principal.ID, followeeID); err != nil {
		return fmt.Errorf("failed to unfollow '%s': %w", followeeID, err)
	}
	s.followSets.Invalidate(ctx, principal.ID)
	return nil
}
