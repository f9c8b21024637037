package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/models"
)

func TestActivityRecordStoresAndPublishes(t *testing.T) {
	repo := &fakeActivityRepo{}
	publisher := &fakePublisher{}
	recorder := NewActivityService(repo, publisher, "activity", zap.NewNop())

	recorder.Record(context.Background(), models.Activity{
		PrincipalID: "alice",
		Action:      models.ActivityPlaceVisited,
		TargetType:  "ITEM",
		TargetID:    "item-1",
	})

	require.Len(t, repo.activities, 1)
	assert.False(t, repo.activities[0].Timestamp.IsZero())

	require.Len(t, publisher.messages, 1)
	msg := publisher.messages[0]
	assert.Equal(t, "activity", msg.queue)
	assert.Equal(t, "application/json", msg.contentType)

	var event ActivityEvent
	require.NoError(t, json.Unmarshal(msg.body, &event))
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "activity-1", event.Activity.ID)
	assert.Equal(t, models.ActivityPlaceVisited, event.Activity.Action)
	assert.Equal(t, "item-1", event.Activity.TargetID)
}

func TestActivityRecordNeverFails(t *testing.T) {
	repo := &fakeActivityRepo{err: errors.New("store down")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	recorder := NewActivityService(repo, publisher, "activity", zap.NewNop())

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), models.Activity{Action: models.ActivityItemAdded})
	})

	withoutBroker := NewActivityService(&fakeActivityRepo{}, nil, "", zap.NewNop())
	assert.NotPanics(t, func() {
		withoutBroker.Record(context.Background(), models.Activity{Action: models.ActivityItemAdded})
	})
}
