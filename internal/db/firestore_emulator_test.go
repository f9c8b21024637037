package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderlist-backend-go/internal/models"
)

// emulatorClient connects to the Firestore emulator, skipping the test when none is configured.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "wanderlist-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func appendRank(item *models.RankedItem, siblings []*models.RankedItem, duplicate bool) error {
	if duplicate {
		return errors.New("duplicate")
	}
	var highest int64
	for _, s := range siblings {
		if s.Rank > highest {
			highest = s.Rank
		}
	}
	item.Rank = highest + 1
	return nil
}

func TestFirestoreItemRepository(t *testing.T) {
	client := emulatorClient(t)
	repo := NewFirestoreItemRepository(client)
	ctx := context.Background()
	owner := uuid.NewString()

	newBucketItem := func(place string) *models.RankedItem {
		return &models.RankedItem{OwnerID: owner, PlaceID: place, UniqueKey: place, Status: models.StatusWantToVisit, CreatedAt: time.Now().UTC()}
	}

	p1, err := repo.Create(ctx, newBucketItem("P1"), appendRank)
	require.NoError(t, err)
	p2, err := repo.Create(ctx, newBucketItem("P2"), appendRank)
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBucketItem("P1"), appendRank)
	assert.Error(t, err)

	stored, err := repo.GetByID(ctx, p2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Rank)
	assert.Equal(t, models.BucketListScopeKey, stored.ScopeKey)

	written, err := repo.Reorder(ctx, []string{p2, p1, "missing"}, func(existing map[string]*models.RankedItem) ([]Placement, error) {
		assert.Len(t, existing, 2)
		return []Placement{{ID: p2, Rank: 1}, {ID: p1, Rank: 2}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	listed, err := repo.ListByScope(ctx, owner, models.BucketList())
	require.NoError(t, err)
	ranks := map[string]int64{}
	for _, item := range listed {
		ranks[item.ID] = item.Rank
	}
	assert.Equal(t, map[string]int64{p2: 1, p1: 2}, ranks)

	visitedAt := time.Now().UTC()
	rating := 5
	update := &models.RankedItem{Status: models.StatusVisited, VisitedAt: &visitedAt, Rating: &rating}
	require.NoError(t, repo.TransitionStatus(ctx, p1, models.StatusWantToVisit, update))
	err = repo.TransitionStatus(ctx, p1, models.StatusWantToVisit, update)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	day := 2
	require.NoError(t, repo.Place(ctx, Placement{ID: p2, Rank: 7, Scope: &models.Scope{TripID: "trip", Day: &day}}))
	moved, err := repo.GetByID(ctx, p2)
	require.NoError(t, err)
	assert.Equal(t, "trip/trip/day/2", moved.ScopeKey)
	assert.Equal(t, int64(7), moved.Rank)

	require.NoError(t, repo.Delete(ctx, p1))
	_, err = repo.GetByID(ctx, p1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p1), ErrNotFound)
}

func TestFirestorePrincipalRepository(t *testing.T) {
	client := emulatorClient(t)
	repo := NewFirestorePrincipalRepository(client)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Create(ctx, &models.Principal{ID: id, ExternalID: id, DisplayName: "Ada"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Principal{ID: id}), ErrAlreadyExists)

	found, err := repo.GetByIDs(ctx, []string{id, uuid.NewString()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ada", found[id].DisplayName)
}

func TestFirestoreFollowAndResourceRepositories(t *testing.T) {
	client := emulatorClient(t)
	follows := NewFirestoreFollowRepository(client)
	resources := NewFirestoreResourceRepository(client)
	ctx := context.Background()
	viewer, owner := uuid.NewString(), uuid.NewString()

	require.NoError(t, follows.Follow(ctx, viewer, owner))
	require.NoError(t, follows.Follow(ctx, viewer, owner))
	following, err := follows.ListFollowing(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, []string{owner}, following)
	require.NoError(t, follows.Unfollow(ctx, viewer, owner))
	following, err = follows.ListFollowing(ctx, viewer)
	require.NoError(t, err)
	assert.Empty(t, following)

	place := uuid.NewString()
	id, err := resources.Create(ctx, &models.ShareableResource{OwnerID: owner, PlaceID: place, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	stored, err := resources.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, stored.Visibility)

	require.NoError(t, resources.UpdateVisibility(ctx, id, models.VisibilityPublic))
	listed, err := resources.ListByPlace(ctx, place)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.VisibilityPublic, listed[0].Visibility)
	assert.ErrorIs(t, resources.UpdateVisibility(ctx, uuid.NewString(), models.VisibilityPublic), ErrNotFound)
}

func TestFirestoreFollowUnderscoreIDs(t *testing.T) {
	client := emulatorClient(t)
	follows := NewFirestoreFollowRepository(client)
	ctx := context.Background()
	base := uuid.NewString()
	a, aB := base, base+"_b"
	c, bC := "c", "b_c"

	require.NoError(t, follows.Follow(ctx, aB, c))
	require.NoError(t, follows.Follow(ctx, a, bC))

	following, err := follows.ListFollowing(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{bC}, following)

	require.NoError(t, follows.Unfollow(ctx, a, bC))
	following, err = follows.ListFollowing(ctx, aB)
	require.NoError(t, err)
	assert.Equal(t, []string{c}, following)
	require.NoError(t, follows.Unfollow(ctx, aB, c))
}
