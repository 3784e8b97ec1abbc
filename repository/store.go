package repository

import (
	"context"

	"github.com/Innayatullahh/skydragon-test/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingStore is the document store seen by the meetings use case.
// Implementations return (nil, nil) from FindByID and UpdateByID when no
// document has the id.
type MeetingStore interface {
	Find(ctx context.Context, filter bson.M) ([]*model.Meeting, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Meeting, error)
	Insert(ctx context.Context, m *model.Meeting) (*model.Meeting, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*model.Meeting, error)
	UpdateMany(ctx context.Context, ids []primitive.ObjectID, patch bson.M) (*UpdateResult, error)
	Populate(ctx context.Context, meetings []*model.Meeting, spec PopulateSpec) ([]*model.PopulatedMeeting, error)
}

// RefSpec controls how one reference path is resolved. A nil Fields loads the
// whole referenced document; Match narrows which referenced documents count
// as resolved.
type RefSpec struct {
	Fields []string
	Match  bson.M
}

type PopulateSpec struct {
	Creator   RefSpec
	Attendees RefSpec
	Leads     RefSpec
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// Assemble joins meetings with the referenced documents that resolved.
// Dangling references are dropped and stored order is kept.
func Assemble(
	meetings []*model.Meeting,
	users map[primitive.ObjectID]*model.User,
	contacts map[primitive.ObjectID]*model.Contact,
	leads map[primitive.ObjectID]*model.Lead,
) []*model.PopulatedMeeting {
	out := make([]*model.PopulatedMeeting, 0, len(meetings))
	for _, m := range meetings {
		p := &model.PopulatedMeeting{
			Meeting:  m,
			Contacts: make([]*model.Contact, 0, len(m.Attendees)),
			Leads:    make([]*model.Lead, 0, len(m.AttendeesLead)),
		}
		if u, ok := users[m.CreatedBy]; ok && !m.CreatedBy.IsZero() {
			p.Creator = u
		}
		for _, id := range m.Attendees {
			if c, ok := contacts[id]; ok {
				p.Contacts = append(p.Contacts, c)
			}
		}
		for _, id := range m.AttendeesLead {
			if l, ok := leads[id]; ok {
				p.Leads = append(p.Leads, l)
			}
		}
		out = append(out, p)
	}
	return out
}

// collectRefs returns the distinct ids referenced by the batch.
func collectRefs(meetings []*model.Meeting) (creators, contacts, leads []primitive.ObjectID) {
	seen := make(map[primitive.ObjectID]struct{})
	add := func(dst []primitive.ObjectID, id primitive.ObjectID, set map[primitive.ObjectID]struct{}) []primitive.ObjectID {
		if id.IsZero() {
			return dst
		}
		if _, ok := set[id]; ok {
			return dst
		}
		set[id] = struct{}{}
		return append(dst, id)
	}

	for _, m := range meetings {
		creators = add(creators, m.CreatedBy, seen)
	}
	seen = make(map[primitive.ObjectID]struct{})
	for _, m := range meetings {
		for _, id := range m.Attendees {
			contacts = add(contacts, id, seen)
		}
	}
	seen = make(map[primitive.ObjectID]struct{})
	for _, m := range meetings {
		for _, id := range m.AttendeesLead {
			leads = add(leads, id, seen)
		}
	}
	return creators, contacts, leads
}
