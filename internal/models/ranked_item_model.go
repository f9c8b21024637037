package models

import (
	"fmt"
	"time"
)

// LifecycleStatus is the visit state of a bucket-list item.
type LifecycleStatus string

const (
	StatusWantToVisit LifecycleStatus = "want_to_visit"
	StatusVisited     LifecycleStatus = "visited"
	StatusSkipped     LifecycleStatus = "skipped"
)

// BucketListScopeKey is the scope key shared by every bucket-list item of an owner.
const BucketListScopeKey = "bucket"

// WeatherSnapshot captures the conditions recorded when a place was marked visited.
type WeatherSnapshot struct {
	Summary      string  `json:"summary" firestore:"summary"`
	TemperatureC float64 `json:"temperatureC" firestore:"temperatureC"`
}

// RankedItem is a place placed at a rank inside one of its owner's collections.
// An item with an empty TripID belongs to the global bucket list; otherwise it is
// an itinerary item and GroupKey holds its day number.
type RankedItem struct {
	ID        string           `json:"id" firestore:"-"`
	OwnerID   string           `json:"ownerId" firestore:"ownerId"`
	TripID    string           `json:"tripId,omitempty" firestore:"tripId"`
	GroupKey  *int             `json:"day,omitempty" firestore:"day"`
	ScopeKey  string           `json:"-" firestore:"scopeKey"` // Derived from TripID/GroupKey, indexed with ownerId
	Rank      int64            `json:"rank" firestore:"rank"`
	PlaceID   string           `json:"placeId" firestore:"placeId"`
	UniqueKey string           `json:"-" firestore:"uniqueKey,omitempty"` // Empty when the scope allows repeats
	Status    LifecycleStatus  `json:"status,omitempty" firestore:"status,omitempty"`
	VisitedAt *time.Time       `json:"visitedAt,omitempty" firestore:"visitedAt,omitempty"`
	Rating    *int             `json:"rating,omitempty" firestore:"rating,omitempty"`
	Weather   *WeatherSnapshot `json:"weather,omitempty" firestore:"weather,omitempty"`
	CreatedAt time.Time        `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" firestore:"updatedAt"`
}

// IsBucketList reports whether the item lives in the owner's global bucket list.
func (i *RankedItem) IsBucketList() bool {
	return i.TripID == ""
}

// Scope identifies a ranked collection of one owner.
// The zero value is the bucket list. A Scope with a TripID and no Day
// covers every day of the trip and is only valid for reads.
type Scope struct {
	TripID string
	Day    *int
}

// BucketList returns the scope of the global bucket list.
func BucketList() Scope { return Scope{} }

// TripDay returns the scope of a single itinerary day.
func TripDay(tripID string, day int) Scope { return Scope{TripID: tripID, Day: &day} }

// WholeTrip returns the read scope spanning every day of a trip.
func WholeTrip(tripID string) Scope { return Scope{TripID: tripID} }

// IsBucketList reports whether the scope is the global bucket list.
func (s Scope) IsBucketList() bool { return s.TripID == "" }

// Key returns the persisted scope key. Whole-trip scopes have no single key and return "".
func (s Scope) Key() string {
	if s.TripID == "" {
		return BucketListScopeKey
	}
	if s.Day == nil {
		return ""
	}
	return fmt.Sprintf("trip/%s/day/%d", s.TripID, *s.Day)
}

// String is used in log fields.
func (s Scope) String() string {
	if k := s.Key(); k != "" {
		return k
	}
	return "trip/" + s.TripID
}

// ScopeOf returns the scope an item currently belongs to.
func ScopeOf(item *RankedItem) Scope {
	if item.IsBucketList() {
		return BucketList()
	}
	if item.GroupKey == nil {
		return WholeTrip(item.TripID)
	}
	return TripDay(item.TripID, *item.GroupKey)
}
