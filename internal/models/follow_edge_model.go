package models

import (
	"strconv"
	"time"
)

// FollowEdge is a directed follower -> followee relation.
type FollowEdge struct {
	FollowerID string    `json:"followerId" firestore:"followerId"`
	FolloweeID string    `json:"followeeId" firestore:"followeeId"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// FollowEdgeID is the document ID of an edge; one document per ordered pair.
// The follower ID is length-prefixed so that distinct pairs never share an ID,
// even when either ID contains the separator.
func FollowEdgeID(followerID, followeeID string) string {
	return strconv.Itoa(len(followerID)) + ":" + followerID + "_" + followeeID
}
