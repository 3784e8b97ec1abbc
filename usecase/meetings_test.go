package usecase

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Innayatullahh/skydragon-test/dto"
	"github.com/Innayatullahh/skydragon-test/model"
	"github.com/Innayatullahh/skydragon-test/repository"
	"github.com/Innayatullahh/skydragon-test/services"
	"github.com/hashicorp/go-hclog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Find(ctx context.Context, filter bson.M) ([]*model.Meeting, error) {
	args := m.Called(ctx, filter)
	meetings, _ := args.Get(0).([]*model.Meeting)
	return meetings, args.Error(1)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Meeting, error) {
	args := m.Called(ctx, id)
	meeting, _ := args.Get(0).(*model.Meeting)
	return meeting, args.Error(1)
}

func (m *mockStore) Insert(ctx context.Context, meeting *model.Meeting) (*model.Meeting, error) {
	args := m.Called(ctx, meeting)
	saved, _ := args.Get(0).(*model.Meeting)
	return saved, args.Error(1)
}

func (m *mockStore) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*model.Meeting, error) {
	args := m.Called(ctx, id, patch)
	meeting, _ := args.Get(0).(*model.Meeting)
	return meeting, args.Error(1)
}

func (m *mockStore) UpdateMany(ctx context.Context, ids []primitive.ObjectID, patch bson.M) (*repository.UpdateResult, error) {
	args := m.Called(ctx, ids, patch)
	result, _ := args.Get(0).(*repository.UpdateResult)
	return result, args.Error(1)
}

func (m *mockStore) Populate(ctx context.Context, meetings []*model.Meeting, spec repository.PopulateSpec) ([]*model.PopulatedMeeting, error) {
	args := m.Called(ctx, meetings, spec)
	populated, _ := args.Get(0).([]*model.PopulatedMeeting)
	return populated, args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Record(ctx context.Context, entry *model.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) Publish(ctx context.Context, routingKey string, payload []byte) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

// fixture wires a service to an in-memory store with one active user, one
// deleted user, a contact and a lead.
type fixture struct {
	svc     *MeetingService
	store   *repository.MemoryStore
	audit   *mockAudit
	events  *mockEvents
	actor   Actor
	gone    *model.User
	contact *model.Contact
	lead    *model.Lead
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewMemoryStore()
	active := &model.User{ID: primitive.NewObjectID(), Username: "u1", FirstName: "Uma"}
	gone := &model.User{ID: primitive.NewObjectID(), Username: "u2", Deleted: true}
	contact := &model.Contact{ID: primitive.NewObjectID(), Email: "c1@example.com", FirstName: "Cy"}
	lead := &model.Lead{ID: primitive.NewObjectID(), LeadEmail: "lead@example.com", LeadName: "Lee"}
	store.AddUser(active)
	store.AddUser(gone)
	store.AddContact(contact)
	store.AddLead(lead)

	audit := new(mockAudit)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	events := new(mockEvents)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	return &fixture{
		svc:     NewMeetingService(store, audit, events, hclog.NewNullLogger()),
		store:   store,
		audit:   audit,
		events:  events,
		actor:   Actor{UserID: active.ID, Client: "Chrome on Windows (Desktop)", RequestID: "req-1"},
		gone:    gone,
		contact: contact,
		lead:    lead,
	}
}

func (f *fixture) create(t *testing.T, agenda string) *dto.MeetingRecord {
	t.Helper()
	rec, err := f.svc.Create(context.Background(), dto.CreateMeetingRequest{Agenda: agenda}, f.actor)
	require.NoError(t, err)
	return rec
}

func TestCreateExample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, dto.CreateMeetingRequest{
		Agenda:    "Sprint Planning",
		Attendees: []string{f.contact.ID.Hex()},
		DateTime:  "2025-04-01T10:00:00",
		Related:   "contact",
	}, f.actor)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, f.actor.UserID.Hex(), rec.CreatedBy)
	assert.False(t, rec.Deleted)
	assert.Equal(t, model.RelatedContact, rec.Related)
	assert.Equal(t, "2025-04-01T10:00:00", rec.DateTime)
	assert.WithinDuration(t, time.Now(), rec.Timestamp, 5*time.Second)

	view, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1@example.com"}, view.AttendeesArray)
	assert.Equal(t, "u1", view.CreatedByName)

	f.audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e *model.AuditEntry) bool {
		return e.Action == model.AuditMeetingCreated && e.Actor == f.actor.UserID &&
			e.RequestID == "req-1" && e.Client == f.actor.Client && len(e.MeetingIDs) == 1
	}))
	f.events.AssertCalled(t, "Publish", mock.Anything, services.RoutingMeetingCreated, mock.Anything)
}

func TestCreateAssignsFreshIDs(t *testing.T) {
	f := newFixture(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		rec := f.create(t, "Standup")
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}

	all, err := f.store.Find(context.Background(), bson.M{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateMeetingRequest
	}{
		{"missing agenda", dto.CreateMeetingRequest{}},
		{"blank agenda", dto.CreateMeetingRequest{Agenda: "   "}},
		{"bad related", dto.CreateMeetingRequest{Agenda: "x", Related: "Account"}},
		{"bad attendee", dto.CreateMeetingRequest{Agenda: "x", Attendees: []string{"nope"}}},
		{"bad lead", dto.CreateMeetingRequest{Agenda: "x", AttendeesLead: []string{"nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Create(context.Background(), tt.req, f.actor)
			assert.ErrorIs(t, err, ErrValidation)

			all, err := f.store.Find(context.Background(), bson.M{})
			require.NoError(t, err)
			assert.Empty(t, all, "nothing persisted")
			f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateTrimsAgenda(t *testing.T) {
	f := newFixture(t)
	rec := f.create(t, "  Retro  ")
	assert.Equal(t, "Retro", rec.Agenda)
}

func TestListNeverReturnsDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep := f.create(t, "keep")
	drop := f.create(t, "drop")
	_, err := f.svc.SoftDelete(ctx, drop.ID, f.actor)
	require.NoError(t, err)

	for _, params := range []url.Values{
		{},
		{"deleted": {"true"}},
		{"deleted": {"true", "false"}},
		{"_id": {drop.ID}},
	} {
		views, err := f.svc.List(ctx, params)
		require.NoError(t, err)
		for _, v := range views {
			assert.False(t, v.Deleted)
			assert.NotEqual(t, drop.ID, v.ID)
		}
	}

	views, err := f.svc.List(ctx, url.Values{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, keep.ID, views[0].ID)
}

func TestListExcludesOrphanedButGetReturnsThem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byGone, err := f.svc.Create(ctx, dto.CreateMeetingRequest{Agenda: "old"}, Actor{UserID: f.gone.ID})
	require.NoError(t, err)
	byNobody, err := f.svc.Create(ctx, dto.CreateMeetingRequest{Agenda: "orphan"}, Actor{UserID: primitive.NewObjectID()})
	require.NoError(t, err)
	f.create(t, "visible")

	views, err := f.svc.List(ctx, url.Values{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "visible", views[0].Agenda)
	assert.Equal(t, "u1", views[0].CreatedByName)

	got, err := f.svc.Get(ctx, byGone.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.CreatedByName)

	got, err = f.svc.Get(ctx, byNobody.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CreatedByName)
	assert.Nil(t, got.Creator)
}

func TestListAttendeesArray(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, dto.CreateMeetingRequest{
		Agenda:        "demo",
		Attendees:     []string{f.contact.ID.Hex(), primitive.NewObjectID().Hex()},
		AttendeesLead: []string{f.lead.ID.Hex()},
	}, f.actor)
	require.NoError(t, err)

	views, err := f.svc.List(ctx, url.Values{"attendees": {f.contact.ID.Hex()}})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, []string{"c1@example.com", "lead@example.com"}, views[0].AttendeesArray)
	assert.Len(t, views[0].AttendeeContacts, 1, "dangling contact dropped")
}

func TestListMalformedFilter(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(context.Background(), url.Values{"createdBy": {"zzz"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrMeetingNotFound)

	_, err = f.svc.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrMeetingNotFound)
}

func TestSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.create(t, "Demo")

	deleted, err := f.svc.SoftDelete(ctx, rec.ID, f.actor)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, rec.ID, deleted.ID)

	views, err := f.svc.List(ctx, url.Values{})
	require.NoError(t, err)
	assert.Empty(t, views)

	got, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	again, err := f.svc.SoftDelete(ctx, rec.ID, f.actor)
	require.NoError(t, err, "idempotent")
	assert.True(t, again.Deleted)

	f.events.AssertCalled(t, "Publish", mock.Anything, services.RoutingMeetingDeleted, mock.Anything)
}

func TestSoftDeleteNotFoundMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.create(t, "Demo")

	_, err := f.svc.SoftDelete(ctx, primitive.NewObjectID().Hex(), f.actor)
	assert.ErrorIs(t, err, ErrMeetingNotFound)
	_, err = f.svc.SoftDelete(ctx, "bogus", f.actor)
	assert.ErrorIs(t, err, ErrMeetingNotFound)

	got, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Deleted)
	f.audit.AssertNumberOfCalls(t, "Record", 1)
}

func TestSoftDeleteManyCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, "a")
	b := f.create(t, "b")
	c := f.create(t, "c")
	_, err := f.svc.SoftDelete(ctx, c.ID, f.actor)
	require.NoError(t, err)

	result, err := f.svc.SoftDeleteMany(ctx, []string{
		a.ID, b.ID, c.ID, primitive.NewObjectID().Hex(), "garbage", a.ID,
	}, f.actor)
	require.NoError(t, err)

	// c existed but was already deleted: matched, not modified.
	assert.Equal(t, int64(3), result.MatchedCount)
	assert.Equal(t, int64(2), result.ModifiedCount)

	for _, id := range []string{a.ID, b.ID} {
		got, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Deleted)
	}
	f.events.AssertCalled(t, "Publish", mock.Anything, services.RoutingMeetingBatchDeleted, mock.Anything)
}

func TestSoftDeleteManyEmpty(t *testing.T) {
	store := new(mockStore)
	svc := NewMeetingService(store, nil, nil, hclog.NewNullLogger())

	result, err := svc.SoftDeleteMany(context.Background(), []string{"x", "y"}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, &dto.BatchDeleteResult{}, result)

	result, err = svc.SoftDeleteMany(context.Background(), nil, Actor{})
	require.NoError(t, err)
	assert.Zero(t, result.MatchedCount)

	store.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestSoftDeleteManyNoChangesSkipsAudit(t *testing.T) {
	store := new(mockStore)
	audit := new(mockAudit)
	id := primitive.NewObjectID()
	store.On("UpdateMany", mock.Anything, []primitive.ObjectID{id}, bson.M{"deleted": true}).
		Return(&repository.UpdateResult{MatchedCount: 1}, nil)

	svc := NewMeetingService(store, audit, nil, hclog.NewNullLogger())
	result, err := svc.SoftDeleteMany(context.Background(), []string{id.Hex()}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.MatchedCount)
	assert.Zero(t, result.ModifiedCount)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	id := primitive.NewObjectID()

	store := new(mockStore)
	store.On("Find", mock.Anything, mock.Anything).Return(nil, boom)
	store.On("FindByID", mock.Anything, id).Return(nil, boom)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil, boom)
	store.On("UpdateByID", mock.Anything, id, mock.Anything).Return(nil, boom)
	store.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	svc := NewMeetingService(store, nil, nil, hclog.NewNullLogger())
	ctx := context.Background()

	_, listErr := svc.List(ctx, url.Values{})
	_, getErr := svc.Get(ctx, id.Hex())
	_, createErr := svc.Create(ctx, dto.CreateMeetingRequest{Agenda: "x"}, Actor{})
	_, deleteErr := svc.SoftDelete(ctx, id.Hex(), Actor{})
	_, batchErr := svc.SoftDeleteMany(ctx, []string{id.Hex()}, Actor{})

	for _, err := range []error{listErr, getErr, createErr, deleteErr, batchErr} {
		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrValidation)
	}
}

func TestListPopulateSpec(t *testing.T) {
	store := new(mockStore)
	meetings := []*model.Meeting{{ID: primitive.NewObjectID()}}
	store.On("Find", mock.Anything, bson.M{"deleted": false}).Return(meetings, nil)
	store.On("Populate", mock.Anything, meetings, mock.MatchedBy(func(spec repository.PopulateSpec) bool {
		return assert.ObjectsAreEqual(bson.M{"deleted": false}, spec.Creator.Match) &&
			assert.ObjectsAreEqual([]string{"username", "firstName", "lastName"}, spec.Creator.Fields) &&
			assert.ObjectsAreEqual([]string{"email"}, spec.Attendees.Fields) &&
			assert.ObjectsAreEqual([]string{"leadEmail"}, spec.Leads.Fields)
	})).Return([]*model.PopulatedMeeting{{Meeting: meetings[0]}}, nil)

	svc := NewMeetingService(store, nil, nil, hclog.NewNullLogger())
	views, err := svc.List(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Empty(t, views, "creator did not resolve")
	store.AssertExpectations(t)
}

func TestAuditAndEventFailuresDoNotFailMutation(t *testing.T) {
	store := repository.NewMemoryStore()
	audit := new(mockAudit)
	audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit down"))
	events := new(mockEvents)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := NewMeetingService(store, audit, events, hclog.NewNullLogger())
	rec, err := svc.Create(context.Background(), dto.CreateMeetingRequest{Agenda: "x"}, Actor{UserID: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	audit.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestOpenBreakerDoesNotFailMutation(t *testing.T) {
	store := repository.NewMemoryStore()
	events := new(mockEvents)
	events.On("Publish", mock.Anything, services.RoutingMeetingCreated, mock.Anything).Return(gobreaker.ErrOpenState).Once()

	svc := NewMeetingService(store, nil, events, hclog.NewNullLogger())
	rec, err := svc.Create(context.Background(), dto.CreateMeetingRequest{Agenda: "x"}, Actor{UserID: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	events.AssertExpectations(t)
}
