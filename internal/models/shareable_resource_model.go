package models

import "time"

// VisibilityTier controls who may see a shareable resource.
type VisibilityTier string

const (
	VisibilityPublic    VisibilityTier = "public"
	VisibilityFollowers VisibilityTier = "followers"
	VisibilityPrivate   VisibilityTier = "private"
)

// Valid reports whether t is one of the known tiers.
func (t VisibilityTier) Valid() bool {
	switch t {
	case VisibilityPublic, VisibilityFollowers, VisibilityPrivate:
		return true
	}
	return false
}

// ShareableResource is a photo attached to a place. Visibility defaults to private.
type ShareableResource struct {
	ID         string         `json:"id" firestore:"-"`
	OwnerID    string         `json:"ownerId" firestore:"ownerId"`
	Visibility VisibilityTier `json:"visibility" firestore:"visibility"`
	PlaceID    string         `json:"placeId" firestore:"placeId"`                           // The place this photo is attached to
	StorageRef string         `json:"storageRef,omitempty" firestore:"storageRef,omitempty"` // Object path managed by the upload service
	Caption    string         `json:"caption,omitempty" firestore:"caption,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" firestore:"createdAt"`
}
