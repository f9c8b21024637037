package models

import "time"

// Activity actions emitted by the core.
const (
	ActivityItemAdded         = "ITEM_ADDED"
	ActivityPlaceVisited      = "PLACE_VISITED"
	ActivityPlaceSkipped      = "PLACE_SKIPPED"
	ActivityVisibilityChanged = "VISIBILITY_CHANGED"
)

// Activity represents a user-visible event, written to the activity feed
// and optionally published to the message queue.
type Activity struct {
	ID          string                 `json:"id" firestore:"-"`
	Timestamp   time.Time              `json:"timestamp" firestore:"timestamp"`
	PrincipalID string                 `json:"principalId" firestore:"principalId"` // Who performed the action
	Action      string                 `json:"action" firestore:"action"`           // e.g., "PLACE_VISITED"
	TargetType  string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID    string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
