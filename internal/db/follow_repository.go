package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"wanderlist-backend-go/internal/models"
)

const followsCollection = "follows"

// firestoreFollowRepository implements FollowRepository using Firestore.
// Edge documents are keyed by follower and followee, so an ordered pair is stored at most once.
type firestoreFollowRepository struct {
	client *firestore.Client
}

// NewFirestoreFollowRepository creates a new FollowRepository backed by Firestore.
func NewFirestoreFollowRepository(client *firestore.Client) FollowRepository {
	if client == nil {
		panic("Firestore client is not initialized for FollowRepository")
	}
	return &firestoreFollowRepository{client: client}
}

// ListFollowing returns the followee IDs of followerID.
func (r *firestoreFollowRepository) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	if followerID == "" {
		return nil, errors.New("followerID cannot be empty for ListFollowing operation")
	}
	iter := r.client.Collection(followsCollection).Where("followerId", "==", followerID).Documents(ctx)
	defer iter.Stop()

	var following []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate follows of '%s': %w", followerID, err)
		}
		var edge models.FollowEdge
		if err := doc.DataTo(&edge); err != nil {
			return nil, fmt.Errorf("failed to decode follow edge '%s': %w", doc.Ref.ID, err)
		}
		following = append(following, edge.FolloweeID)
	}
	return following, nil
}

// Follow records followerID -> followeeID. Following twice is a no-op.
func (r *firestoreFollowRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == "" || followeeID == "" {
		return errors.New("follower and followee IDs are required")
	}
	edge := models.FollowEdge{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: time.Now().UTC()}
	_, err := r.client.Collection(followsCollection).Doc(models.FollowEdgeID(followerID, followeeID)).Create(ctx, edge)
	if err != nil && !errors.Is(translate(err), ErrAlreadyExists) {
		return fmt.Errorf("failed to follow '%s' -> '%s': %w", followerID, followeeID, err)
	}
	return nil
}

// Unfollow removes the edge if it exists.
func (r *firestoreFollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.client.Collection(followsCollection).Doc(models.FollowEdgeID(followerID, followeeID)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to unfollow '%s' -> '%s': %w", followerID, followeeID, err)
	}
	return nil
}
