package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Innayatullahh/skydragon-test/dto"
	"github.com/Innayatullahh/skydragon-test/model"
	"github.com/Innayatullahh/skydragon-test/repository"
	"github.com/Innayatullahh/skydragon-test/services"
	"github.com/hashicorp/go-hclog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor identifies who is making a request.
type Actor struct {
	UserID    primitive.ObjectID
	Client    string
	RequestID string
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *model.AuditEntry) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

var creatorFields = []string{"username", "firstName", "lastName"}

// listPopulate resolves only active creators; meetings whose creator does not
// resolve are left out of list results.
var listPopulate = repository.PopulateSpec{
	Creator:   repository.RefSpec{Fields: creatorFields, Match: bson.M{"deleted": false}},
	Attendees: repository.RefSpec{Fields: []string{"email"}},
	Leads:     repository.RefSpec{Fields: []string{"leadEmail"}},
}

// getPopulate loads full attendee documents and any creator.
var getPopulate = repository.PopulateSpec{
	Creator: repository.RefSpec{Fields: creatorFields},
}

type MeetingService struct {
	Store  repository.MeetingStore
	Audit  AuditRecorder
	Events EventPublisher
	Logger hclog.Logger

	now func() time.Time
}

func NewMeetingService(store repository.MeetingStore, audit AuditRecorder, events EventPublisher, logger hclog.Logger) *MeetingService {
	return &MeetingService{
		Store:  store,
		Audit:  audit,
		Events: events,
		Logger: logger.Named("meetings"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the visible meetings matching params.
func (s *MeetingService) List(ctx context.Context, params url.Values) ([]dto.MeetingView, error) {
	filter, err := BuildListFilter(params)
	if err != nil {
		return nil, err
	}

	meetings, err := s.Store.Find(ctx, filter)
	if err != nil {
		return nil, &StoreError{Op: "list meetings", Err: err}
	}

	populated, err := s.Store.Populate(ctx, meetings, listPopulate)
	if err != nil {
		return nil, &StoreError{Op: "list meetings", Err: err}
	}

	visible := populated[:0]
	for _, p := range populated {
		if p.Creator != nil {
			visible = append(visible, p)
		}
	}

	return dto.ToMeetingViews(visible), nil
}

// Get looks a meeting up by id whether or not it has been deleted.
func (s *MeetingService) Get(ctx context.Context, id string) (*dto.MeetingView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMeetingNotFound
	}

	meeting, err := s.Store.FindByID(ctx, oid)
	if err != nil {
		return nil, &StoreError{Op: "get meeting", Err: err}
	}
	if meeting == nil {
		return nil, ErrMeetingNotFound
	}

	populated, err := s.Store.Populate(ctx, []*model.Meeting{meeting}, getPopulate)
	if err != nil {
		return nil, &StoreError{Op: "get meeting", Err: err}
	}
	if len(populated) == 0 {
		return nil, ErrMeetingNotFound
	}

	view := dto.ToMeetingView(populated[0])
	return &view, nil
}

func (s *MeetingService) Create(ctx context.Context, req dto.CreateMeetingRequest, actor Actor) (*dto.MeetingRecord, error) {
	agenda := strings.TrimSpace(req.Agenda)
	if agenda == "" {
		return nil, validationError("agenda is required")
	}

	related, err := model.ParseRelated(req.Related)
	if err != nil {
		return nil, validationError("%v", err)
	}

	attendees, err := parseRefIDs("attendees", req.Attendees)
	if err != nil {
		return nil, err
	}
	attendeesLead, err := parseRefIDs("attendeesLead", req.AttendeesLead)
	if err != nil {
		return nil, err
	}

	meeting := &model.Meeting{
		Agenda:        agenda,
		Attendees:     attendees,
		AttendeesLead: attendeesLead,
		Location:      req.Location,
		Related:       related,
		DateTime:      req.DateTime,
		Notes:         req.Notes,
		CreatedBy:     actor.UserID,
		Timestamp:     s.now(),
		Deleted:       false,
	}

	saved, err := s.Store.Insert(ctx, meeting)
	if err != nil {
		return nil, &StoreError{Op: "create meeting", Err: err}
	}

	s.Logger.Info("meeting created", "meeting_id", saved.ID.Hex(), "user_id", actor.UserID.Hex(), "request_id", actor.RequestID)
	s.afterMutation(ctx, model.AuditMeetingCreated, services.RoutingMeetingCreated, []primitive.ObjectID{saved.ID}, actor)

	record := dto.ToMeetingRecord(saved)
	return &record, nil
}

// SoftDelete marks a meeting deleted and returns it. Deleting an already
// deleted meeting succeeds.
func (s *MeetingService) SoftDelete(ctx context.Context, id string, actor Actor) (*dto.MeetingRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMeetingNotFound
	}

	updated, err := s.Store.UpdateByID(ctx, oid, bson.M{"deleted": true})
	if err != nil {
		return nil, &StoreError{Op: "delete meeting", Err: err}
	}
	if updated == nil {
		return nil, ErrMeetingNotFound
	}

	s.Logger.Info("meeting deleted", "meeting_id", oid.Hex(), "user_id", actor.UserID.Hex(), "request_id", actor.RequestID)
	s.afterMutation(ctx, model.AuditMeetingDeleted, services.RoutingMeetingDeleted, []primitive.ObjectID{oid}, actor)

	record := dto.ToMeetingRecord(updated)
	return &record, nil
}

// SoftDeleteMany marks every listed meeting deleted. Ids that are not valid
// ObjectIDs are skipped.
func (s *MeetingService) SoftDeleteMany(ctx context.Context, ids []string, actor Actor) (*dto.BatchDeleteResult, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			s.Logger.Debug("skipping malformed meeting id", "id", id, "request_id", actor.RequestID)
			continue
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		oids = append(oids, oid)
	}

	if len(oids) == 0 {
		return &dto.BatchDeleteResult{}, nil
	}

	result, err := s.Store.UpdateMany(ctx, oids, bson.M{"deleted": true})
	if err != nil {
		return nil, &StoreError{Op: "batch delete meetings", Err: err}
	}

	s.Logger.Info("meetings deleted",
		"requested", len(ids),
		"matched", result.MatchedCount,
		"modified", result.ModifiedCount,
		"user_id", actor.UserID.Hex(),
		"request_id", actor.RequestID,
	)
	if result.ModifiedCount > 0 {
		s.afterMutation(ctx, model.AuditMeetingBatchDeleted, services.RoutingMeetingBatchDeleted, oids, actor)
	}

	return &dto.BatchDeleteResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}, nil
}

// afterMutation writes the audit entry and publishes the event. Failures are
// logged; the mutation has already happened.
func (s *MeetingService) afterMutation(ctx context.Context, action model.AuditAction, routingKey string, ids []primitive.ObjectID, actor Actor) {
	if s.Audit != nil {
		entry := &model.AuditEntry{
			Actor:      actor.UserID,
			Action:     action,
			MeetingIDs: ids,
			Client:     actor.Client,
			RequestID:  actor.RequestID,
			Timestamp:  s.now(),
		}
		if err := s.Audit.Record(ctx, entry); err != nil {
			s.Logger.Error("failed to record audit entry", "action", action, "request_id", actor.RequestID, "error", err)
		}
	}

	if s.Events != nil {
		hexIDs := make([]string, len(ids))
		for i, id := range ids {
			hexIDs[i] = id.Hex()
		}
		evt := services.NewMeetingEvent(routingKey, hexIDs, actor.UserID.Hex(), actor.RequestID)
		err := services.PublishMeetingEvent(ctx, s.Events, evt)
		switch {
		case err == nil:
		case services.IsBreakerOpen(err):
			// the breaker already logged the trip
			s.Logger.Debug("event dropped, broker circuit open", "routing_key", routingKey, "request_id", actor.RequestID)
		default:
			s.Logger.Warn("failed to publish event", "routing_key", routingKey, "request_id", actor.RequestID, "error", err)
		}
	}
}

func parseRefIDs(field string, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(r))
		if err != nil {
			return nil, validationError("%s: %q is not a valid id", field, r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
