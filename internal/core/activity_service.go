package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/models"
	"wanderlist-backend-go/pkg/messagequeue"
)

// ActivityEvent is the message published for every recorded activity.
type ActivityEvent struct {
	EventID  string          `json:"eventId"`
	Activity models.Activity `json:"activity"`
}

// activityService implements ActivityRecorder. It stores the activity and, when a
// publisher is configured, publishes it to the activity queue.
type activityService struct {
	repo      db.ActivityRepository
	publisher messagequeue.Publisher
	queue     string
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewActivityService creates a new ActivityRecorder. publisher may be nil.
func NewActivityService(repo db.ActivityRepository, publisher messagequeue.Publisher, queue string, logger *zap.Logger) ActivityRecorder {
	return &activityService{
		repo:      repo,
		publisher: publisher,
		queue:     queue,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.NewString() },
	}
}

// Record stores and publishes the activity. Failures are logged, not returned:
// the mutation that produced the activity has already been committed.
func (s *activityService) Record(ctx context.Context, activity models.Activity) {
	if activity.Timestamp.IsZero() {
		activity.Timestamp = s.now()
	}

	id, err := s.repo.Create(ctx, activity)
	if err != nil {
		s.logger.Warn("Failed to store activity",
			zap.String("action", activity.Action),
			zap.String("targetId", activity.TargetID),
			zap.Error(err))
	} else {
		activity.ID = id
	}

	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(ActivityEvent{EventID: s.newID(), Activity: activity})
	if err != nil {
		s.logger.Warn("Failed to encode activity event", zap.String("action", activity.Action), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.queue, "application/json", body); err != nil {
		s.logger.Warn("Failed to publish activity event",
			zap.String("action", activity.Action),
			zap.String("queue", s.queue),
			zap.Error(err))
	}
}
