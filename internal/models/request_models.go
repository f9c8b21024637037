package models

import "time"

// AddBucketListItemRequest represents the request body for adding a place to the bucket list.
type AddBucketListItemRequest struct {
	PlaceID string `json:"placeId" binding:"required"`
}

// AddItineraryItemRequest represents the request body for adding a place to a trip day.
// Rank is optional; when omitted the item is appended to the end of the day.
type AddItineraryItemRequest struct {
	PlaceID string `json:"placeId" binding:"required"`
	Day     int    `json:"day" binding:"required"`
	Rank    *int64 `json:"rank,omitempty"`
}

// ReorderRequest carries the new order of item IDs for one scope.
type ReorderRequest struct {
	ItemIDs []string `json:"itemIds" binding:"required"`
}

// SetRankRequest overwrites an item's rank; when Day is set the item also moves to that day.
type SetRankRequest struct {
	Rank *int64 `json:"rank" binding:"required"`
	Day  *int   `json:"day,omitempty"`
}

// MarkVisitedRequest represents the request body for marking a bucket-list place visited.
type MarkVisitedRequest struct {
	Rating    *int             `json:"rating,omitempty"`
	Weather   *WeatherSnapshot `json:"weather,omitempty"`
	VisitedAt *time.Time       `json:"visitedAt,omitempty"`
}

// SetVisibilityRequest changes the tier of a photo.
type SetVisibilityRequest struct {
	Visibility VisibilityTier `json:"visibility" binding:"required"`
}
