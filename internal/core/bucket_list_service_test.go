package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderlist-backend-go/internal/models"
)

func intPtr(v int) *int { return &v }

func TestBucketListAdd(t *testing.T) {
	ctx := context.Background()
	alice := principal("alice")
	bob := principal("bob")
	f := newFixture(true, alice, bob)

	p1, err := f.bucket.Add(ctx, alice, "P1")
	require.NoError(t, err)
	p2, err := f.bucket.Add(ctx, alice, "P2")
	require.NoError(t, err)

	stored := f.items.stored(p1)
	assert.Equal(t, models.StatusWantToVisit, stored.Status)
	assert.Equal(t, models.BucketListScopeKey, stored.ScopeKey)
	assert.Equal(t, int64(1), stored.Rank)
	assert.Equal(t, int64(2), f.items.stored(p2).Rank)

	_, err = f.bucket.Add(ctx, alice, "P1")
	assert.ErrorIs(t, err, ErrDuplicate)

	// Uniqueness is per owner.
	_, err = f.bucket.Add(ctx, bob, "P1")
	assert.NoError(t, err)

	_, err = f.bucket.Add(ctx, alice, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.bucket.Add(ctx, nil, "P3")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	listed, err := f.bucket.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{p1, p2}, ids(listed))
}

func TestBucketListLifecycle(t *testing.T) {
	ctx := context.Background()
	alice := principal("alice")
	bob := principal("bob")
	f := newFixture(true, alice, bob)

	visited, err := f.bucket.Add(ctx, alice, "P1")
	require.NoError(t, err)
	skipped, err := f.bucket.Add(ctx, alice, "P2")
	require.NoError(t, err)

	t.Run("rating out of range", func(t *testing.T) {
		_, err := f.bucket.MarkVisited(ctx, alice, visited, VisitInput{Rating: intPtr(6)})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.bucket.MarkVisited(ctx, alice, visited, VisitInput{Rating: intPtr(0)})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, models.StatusWantToVisit, f.items.stored(visited).Status)
	})

	t.Run("other owners cannot transition", func(t *testing.T) {
		_, err := f.bucket.MarkVisited(ctx, bob, visited, VisitInput{})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.bucket.MarkSkipped(ctx, nil, visited)
		assert.ErrorIs(t, err, ErrAuthenticationRequired)
	})

	t.Run("visit records details", func(t *testing.T) {
		when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		item, err := f.bucket.MarkVisited(ctx, alice, visited, VisitInput{
			Rating:    intPtr(4),
			Weather:   &models.WeatherSnapshot{Summary: "sunny", TemperatureC: 24},
			VisitedAt: &when,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusVisited, item.Status)

		stored := f.items.stored(visited)
		assert.Equal(t, models.StatusVisited, stored.Status)
		require.NotNil(t, stored.VisitedAt)
		assert.True(t, when.Equal(*stored.VisitedAt))
		require.NotNil(t, stored.Rating)
		assert.Equal(t, 4, *stored.Rating)
		require.NotNil(t, stored.Weather)
		assert.Equal(t, "sunny", stored.Weather.Summary)
	})

	t.Run("skip", func(t *testing.T) {
		item, err := f.bucket.MarkSkipped(ctx, alice, skipped)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSkipped, item.Status)
		assert.Nil(t, f.items.stored(skipped).VisitedAt)
	})

	t.Run("terminal states", func(t *testing.T) {
		_, err := f.bucket.MarkVisited(ctx, alice, visited, VisitInput{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = f.bucket.MarkSkipped(ctx, alice, visited)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = f.bucket.MarkVisited(ctx, alice, skipped, VisitInput{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("itinerary items have no lifecycle", func(t *testing.T) {
		tripItem := addToDay(t, f, alice, "rome", 1, "colosseum")
		_, err := f.bucket.MarkVisited(ctx, alice, tripItem, VisitInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	assert.Contains(t, f.activity.actions(), models.ActivityPlaceVisited)
	assert.Contains(t, f.activity.actions(), models.ActivityPlaceSkipped)
}

func TestBucketListScenario(t *testing.T) {
	ctx := context.Background()
	a := principal("A")
	f := newFixture(true, a)

	p1, err := f.bucket.Add(ctx, a, "P1")
	require.NoError(t, err)
	p2, err := f.bucket.Add(ctx, a, "P2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.items.stored(p1).Rank)
	assert.Equal(t, int64(2), f.items.stored(p2).Rank)

	require.NoError(t, f.collections.Reorder(ctx, a, "A", models.BucketList(), []string{p2, p1}))
	assert.Equal(t, int64(1), f.items.stored(p2).Rank)
	assert.Equal(t, int64(2), f.items.stored(p1).Rank)

	_, err = f.bucket.MarkVisited(ctx, a, p1, VisitInput{Rating: intPtr(5)})
	require.NoError(t, err)
	stored := f.items.stored(p1)
	assert.Equal(t, models.StatusVisited, stored.Status)
	assert.NotNil(t, stored.VisitedAt)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 5, *stored.Rating)

	listed, err := f.bucket.List(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{p2, p1}, ids(listed))
	assert.Equal(t, models.ActivityPlaceVisited, f.activity.actions()[len(f.activity.actions())-1])
}
