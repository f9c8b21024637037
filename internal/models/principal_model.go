package models

import "time"

// Principal represents an authenticated user of the system.
// The document ID is the Firebase Auth UID, so the identity binding never changes after creation.
type Principal struct {
	ID          string    `json:"id" firestore:"-"`                  // Firebase Auth UID, used as the document ID
	ExternalID  string    `json:"externalId" firestore:"externalId"` // Identity provider subject (the UID itself for Firebase)
	Email       string    `json:"email,omitempty" firestore:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// Profile is the public-facing part of a Principal, used when listing contributors.
type Profile struct {
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// PublicProfile returns the fields of the principal that are safe to show to other users.
func (p *Principal) PublicProfile() Profile {
	if p == nil {
		return Profile{}
	}
	return Profile{DisplayName: p.DisplayName, PhotoURL: p.PhotoURL}
}
