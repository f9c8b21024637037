package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/models"
)

// fakeVerifier accepts tokens of the form "token-<uid>".
type fakeVerifier struct {
	claims map[string]map[string]interface{}
}

func (v *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	const prefix = "token-"
	if len(idToken) <= len(prefix) || idToken[:len(prefix)] != prefix {
		return nil, errors.New("malformed token")
	}
	uid := idToken[len(prefix):]
	return &auth.Token{UID: uid, Claims: v.claims[uid]}, nil
}

type fakePrincipalRepo struct {
	mu         sync.Mutex
	principals map[string]models.Principal
	creates    int
}

func newFakePrincipalRepo(principals ...*models.Principal) *fakePrincipalRepo {
	r := &fakePrincipalRepo{principals: make(map[string]models.Principal)}
	for _, p := range principals {
		r.principals[p.ID] = *p
	}
	return r
}

func (r *fakePrincipalRepo) GetByID(_ context.Context, id string) (*models.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.principals[id]
	if !ok {
		return nil, fmt.Errorf("principal '%s': %w", id, db.ErrNotFound)
	}
	return &p, nil
}

func (r *fakePrincipalRepo) GetByIDs(_ context.Context, ids []string) (map[string]*models.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := make(map[string]*models.Principal, len(ids))
	for _, id := range ids {
		if p, ok := r.principals[id]; ok {
			found[id] = &p
		}
	}
	return found, nil
}

func (r *fakePrincipalRepo) Create(_ context.Context, principal *models.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.principals[principal.ID]; ok {
		return fmt.Errorf("principal '%s': %w", principal.ID, db.ErrAlreadyExists)
	}
	r.principals[principal.ID] = *principal
	r.creates++
	return nil
}

// fakeItemRepo mirrors the Firestore repository: the prepare and plan callbacks run
// under the repository lock and a failing callback writes nothing.
type fakeItemRepo struct {
	mu     sync.Mutex
	items  map[string]models.RankedItem
	nextID int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]models.RankedItem)}
}

func inScope(item models.RankedItem, ownerID string, scope models.Scope) bool {
	if item.OwnerID != ownerID {
		return false
	}
	if key := scope.Key(); key != "" {
		return item.ScopeKey == key
	}
	return item.TripID == scope.TripID
}

func (r *fakeItemRepo) Create(_ context.Context, item *models.RankedItem, prepare db.PrepareCreate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope := models.ScopeOf(item)
	item.ScopeKey = scope.Key()
	if item.ScopeKey == "" {
		return "", errors.New("itinerary items need a day to be created")
	}

	duplicate := false
	var siblings []*models.RankedItem
	for _, existing := range r.items {
		if item.UniqueKey != "" && existing.OwnerID == item.OwnerID && existing.UniqueKey == item.UniqueKey {
			duplicate = true
		}
		if inScope(existing, item.OwnerID, scope) {
			e := existing
			siblings = append(siblings, &e)
		}
	}
	if err := prepare(item, siblings, duplicate); err != nil {
		return "", err
	}
	r.nextID++
	item.ID = fmt.Sprintf("item-%d", r.nextID)
	r.items[item.ID] = *item
	return item.ID, nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*models.RankedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("item '%s': %w", id, db.ErrNotFound)
	}
	return &item, nil
}

func (r *fakeItemRepo) ListByScope(_ context.Context, ownerID string, scope models.Scope) ([]*models.RankedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.RankedItem
	for _, item := range r.items {
		if inScope(item, ownerID, scope) {
			i := item
			items = append(items, &i)
		}
	}
	return items, nil
}

func (r *fakeItemRepo) apply(p db.Placement) {
	item := r.items[p.ID]
	item.Rank = p.Rank
	if p.Scope != nil {
		item.TripID = p.Scope.TripID
		item.GroupKey = p.Scope.Day
		item.ScopeKey = p.Scope.Key()
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = item
}

func (r *fakeItemRepo) Place(_ context.Context, p db.Placement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return fmt.Errorf("item '%s': %w", p.ID, db.ErrNotFound)
	}
	r.apply(p)
	return nil
}

func (r *fakeItemRepo) Reorder(_ context.Context, ids []string, plan db.PlanOrder) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := make(map[string]*models.RankedItem, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			i := item
			existing[id] = &i
		}
	}
	placements, err := plan(existing)
	if err != nil {
		return 0, err
	}
	for _, p := range placements {
		r.apply(p)
	}
	return len(placements), nil
}

func (r *fakeItemRepo) TransitionStatus(_ context.Context, id string, from models.LifecycleStatus, update *models.RankedItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("item '%s': %w", id, db.ErrNotFound)
	}
	if item.Status != from {
		return fmt.Errorf("item '%s': %w", id, db.ErrPreconditionFailed)
	}
	item.Status = update.Status
	item.VisitedAt = update.VisitedAt
	item.Rating = update.Rating
	item.Weather = update.Weather
	r.items[id] = item
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("item '%s': %w", id, db.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) stored(id string) models.RankedItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

type fakeResourceRepo struct {
	mu        sync.Mutex
	resources map[string]models.ShareableResource
	lists     int
}

func newFakeResourceRepo(resources ...*models.ShareableResource) *fakeResourceRepo {
	r := &fakeResourceRepo{resources: make(map[string]models.ShareableResource)}
	for _, res := range resources {
		r.resources[res.ID] = *res
	}
	return r
}

func (r *fakeResourceRepo) Create(_ context.Context, resource *models.ShareableResource) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resource.ID == "" {
		resource.ID = fmt.Sprintf("photo-%d", len(r.resources)+1)
	}
	r.resources[resource.ID] = *resource
	return resource.ID, nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id string) (*models.ShareableResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, fmt.Errorf("photo '%s': %w", id, db.ErrNotFound)
	}
	return &res, nil
}

func (r *fakeResourceRepo) ListByPlace(_ context.Context, placeID string) ([]*models.ShareableResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []*models.ShareableResource
	for _, res := range r.resources {
		if res.PlaceID == placeID {
			x := res
			out = append(out, &x)
		}
	}
	return out, nil
}

func (r *fakeResourceRepo) UpdateVisibility(_ context.Context, id string, tier models.VisibilityTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return fmt.Errorf("photo '%s': %w", id, db.ErrNotFound)
	}
	res.Visibility = tier
	r.resources[id] = res
	return nil
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[string]map[string]struct{}
	loads int
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[string]map[string]struct{})}
}

func (r *fakeFollowRepo) ListFollowing(_ context.Context, followerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	ids := make([]string, 0, len(r.edges[followerID]))
	for id := range r.edges[followerID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeFollowRepo) Follow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.edges[followerID] == nil {
		r.edges[followerID] = make(map[string]struct{})
	}
	r.edges[followerID][followeeID] = struct{}{}
	return nil
}

func (r *fakeFollowRepo) Unfollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges[followerID], followeeID)
	return nil
}

func (r *fakeFollowRepo) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []models.Activity
	err        error
}

func (r *fakeActivityRepo) Create(_ context.Context, activity models.Activity) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.activities = append(r.activities, activity)
	return fmt.Sprintf("activity-%d", len(r.activities)), nil
}

// recordingActivity is an in-memory ActivityRecorder.
type recordingActivity struct {
	mu      sync.Mutex
	records []models.Activity
}

func (r *recordingActivity) Record(_ context.Context, activity models.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, activity)
}

func (r *recordingActivity) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.records))
	for _, a := range r.records {
		actions = append(actions, a.Action)
	}
	return actions
}

type publishedMessage struct {
	queue       string
	contentType string
	body        []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, queue, contentType string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{queue: queue, contentType: contentType, body: body})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// fixture wires every service over in-memory fakes.
type fixture struct {
	items       *fakeItemRepo
	principals  *fakePrincipalRepo
	resources   *fakeResourceRepo
	follows     *fakeFollowRepo
	activity    *recordingActivity
	guard       AuthGuard
	collections CollectionService
	bucket      BucketListService
	visibility  VisibilityService
}

func newFixture(concealForeign bool, principals ...*models.Principal) *fixture {
	logger := zap.NewNop()
	f := &fixture{
		items:      newFakeItemRepo(),
		principals: newFakePrincipalRepo(principals...),
		resources:  newFakeResourceRepo(),
		follows:    newFakeFollowRepo(),
		activity:   &recordingActivity{},
	}
	f.guard = NewAuthGuard(&fakeVerifier{}, f.principals, concealForeign, logger)
	f.collections = NewCollectionService(f.items, f.guard, f.activity, logger)
	f.bucket = NewBucketListService(f.collections, f.items, f.guard, f.activity, logger)
	f.visibility = NewVisibilityService(f.resources, f.principals, f.follows,
		NewFollowSetLoader(f.follows, nil, 0, logger), f.guard, f.activity, logger)
	return f
}

func principal(id string) *models.Principal {
	return &models.Principal{ID: id, ExternalID: id, DisplayName: "User " + id}
}
