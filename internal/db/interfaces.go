package db

import (
	"context"

	"wanderlist-backend-go/internal/models"
)

// PrincipalRepository defines storage operations for authenticated users.
type PrincipalRepository interface {
	GetByID(ctx context.Context, id string) (*models.Principal, error)
	// GetByIDs returns the principals that exist among ids, keyed by ID. Missing IDs are omitted.
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Principal, error)
	Create(ctx context.Context, principal *models.Principal) error
}

// Placement is a rank (and optionally a new scope) to write for one item.
type Placement struct {
	ID    string
	Rank  int64
	Scope *models.Scope // nil keeps the item's current scope
}

// PrepareCreate is called inside the create transaction with the current items of the
// new item's scope and whether the owner already has an item with the same unique key.
// It may adjust the item (e.g. assign its rank) or abort by returning an error.
type PrepareCreate func(item *models.RankedItem, siblings []*models.RankedItem, duplicate bool) error

// PlanOrder is called inside the reorder transaction with the items that exist among the
// requested IDs, keyed by ID. It returns the placements to write.
type PlanOrder func(existing map[string]*models.RankedItem) ([]Placement, error)

// ItemRepository defines storage operations for ranked items.
type ItemRepository interface {
	Create(ctx context.Context, item *models.RankedItem, prepare PrepareCreate) (string, error)
	GetByID(ctx context.Context, id string) (*models.RankedItem, error)
	// ListByScope returns an owner's items in a scope, unordered. A whole-trip scope returns every day.
	ListByScope(ctx context.Context, ownerID string, scope models.Scope) ([]*models.RankedItem, error)
	Place(ctx context.Context, placement Placement) error
	// Reorder reads the items named by ids and writes the planned placements in one transaction.
	Reorder(ctx context.Context, ids []string, plan PlanOrder) (int, error)
	// TransitionStatus moves an item from one lifecycle status to another, failing with
	// ErrPreconditionFailed when the stored status is not from.
	TransitionStatus(ctx context.Context, id string, from models.LifecycleStatus, update *models.RankedItem) error
	Delete(ctx context.Context, id string) error
}

// ResourceRepository defines storage operations for shareable resources (photos).
type ResourceRepository interface {
	// Create stores a new resource record. Photo uploads are handled by a separate
	// upload service that writes resources through this method; no HTTP route here
	// creates them.
	Create(ctx context.Context, resource *models.ShareableResource) (string, error)
	GetByID(ctx context.Context, id string) (*models.ShareableResource, error)
	ListByPlace(ctx context.Context, placeID string) ([]*models.ShareableResource, error)
	UpdateVisibility(ctx context.Context, id string, tier models.VisibilityTier) error
}

// FollowRepository defines storage operations for the follow graph.
type FollowRepository interface {
	// ListFollowing returns the IDs of everyone followerID follows.
	ListFollowing(ctx context.Context, followerID string) ([]string, error)
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
}

// ActivityRepository defines storage operations for activity records.
type ActivityRepository interface {
	Create(ctx context.Context, activity models.Activity) (string, error)
}
