package core

import (
	"context"

	"wanderlist-backend-go/internal/models"
)

// AuthGuard resolves credentials to principals and enforces ownership.
type AuthGuard interface {
	// ResolvePrincipal verifies a credential and returns its principal, creating the
	// principal record on first use.
	ResolvePrincipal(ctx context.Context, credential string) (*models.Principal, error)
	// RequireOwnership checks an owner ID supplied explicitly by the caller.
	RequireOwnership(principal *models.Principal, ownerID string) error
	// RequireResourceOwnership checks the owner of a resource the caller looked up by ID.
	// Depending on configuration a foreign resource is reported as missing.
	RequireResourceOwnership(principal *models.Principal, ownerID, kind, id string) error
	// CanRead reports whether principal may read ownerID's private collections.
	CanRead(principal *models.Principal, ownerID string) bool
}

// CollectionService maintains ranked sequences of items per owner and scope.
type CollectionService interface {
	AddItem(ctx context.Context, principal *models.Principal, in AddItemInput) (string, error)
	SetRank(ctx context.Context, principal *models.Principal, itemID string, rank int64) error
	SetGroupAndRank(ctx context.Context, principal *models.Principal, itemID string, day int, rank int64) error
	Reorder(ctx context.Context, principal *models.Principal, ownerID string, scope models.Scope, orderedIDs []string) error
	RemoveItem(ctx context.Context, principal *models.Principal, itemID string) error
	ListByScope(ctx context.Context, principal *models.Principal, ownerID string, scope models.Scope) ([]*models.RankedItem, error)
}

// BucketListService manages the global bucket list and its visit lifecycle.
type BucketListService interface {
	Add(ctx context.Context, principal *models.Principal, placeID string) (string, error)
	List(ctx context.Context, principal *models.Principal) ([]*models.RankedItem, error)
	MarkVisited(ctx context.Context, principal *models.Principal, itemID string, in VisitInput) (*models.RankedItem, error)
	MarkSkipped(ctx context.Context, principal *models.Principal, itemID string) (*models.RankedItem, error)
}

// VisibilityService computes what a viewer may see of tier-labelled resources.
type VisibilityService interface {
	VisibleSet(ctx context.Context, viewerID *string, resources []*models.ShareableResource) ([]*models.ShareableResource, error)
	ContributorSummary(ctx context.Context, resources []*models.ShareableResource, limit int) ([]Contributor, error)
	AggregateStats(resources []*models.ShareableResource) Stats
	SetVisibilityTier(ctx context.Context, principal *models.Principal, resourceID string, tier models.VisibilityTier) error
	ListPlacePhotos(ctx context.Context, viewerID *string, placeID string) ([]*models.ShareableResource, error)
	PlaceContributors(ctx context.Context, placeID string, limit int) ([]Contributor, error)
	PlaceStats(ctx context.Context, placeID string) (Stats, error)
	Follow(ctx context.Context, principal *models.Principal, followeeID string) error
	Unfollow(ctx context.Context, principal *models.Principal, followeeID string) error
}

// ActivityRecorder records user activity. Recording never fails the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, activity models.Activity)
}
