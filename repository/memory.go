package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/Innayatullahh/skydragon-test/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a MeetingStore held in process memory. Filters support
// equality, $in and regular expressions on top-level keys, which covers
// every filter the meetings service builds.
type MemoryStore struct {
	mu       sync.RWMutex
	meetings []*model.Meeting
	users    map[primitive.ObjectID]*model.User
	contacts map[primitive.ObjectID]*model.Contact
	leads    map[primitive.ObjectID]*model.Lead
}

var _ MeetingStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[primitive.ObjectID]*model.User),
		contacts: make(map[primitive.ObjectID]*model.Contact),
		leads:    make(map[primitive.ObjectID]*model.Lead),
	}
}

func (s *MemoryStore) AddUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *MemoryStore) AddContact(c *model.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[c.ID] = c
}

func (s *MemoryStore) AddLead(l *model.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[l.ID] = l
}

func (s *MemoryStore) Find(ctx context.Context, filter bson.M) ([]*model.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Meeting, 0)
	for _, m := range s.meetings {
		ok, err := matches(m, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m := s.byID(id); m != nil {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (s *MemoryStore) Insert(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if s.byID(m.ID) != nil {
		return nil, fmt.Errorf("duplicate key: %s", m.ID.Hex())
	}
	if m.Attendees == nil {
		m.Attendees = []primitive.ObjectID{}
	}
	if m.AttendeesLead == nil {
		m.AttendeesLead = []primitive.ObjectID{}
	}

	stored := *m
	s.meetings = append(s.meetings, &stored)
	return m, nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*model.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.byID(id)
	if m == nil {
		return nil, nil
	}
	if _, err := applyPatch(m, patch); err != nil {
		return nil, err
	}
	c := *m
	return &c, nil
}

func (s *MemoryStore) UpdateMany(ctx context.Context, ids []primitive.ObjectID, patch bson.M) (*UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	result := &UpdateResult{}
	for _, m := range s.meetings {
		if !want[m.ID] {
			continue
		}
		result.MatchedCount++
		changed, err := applyPatch(m, patch)
		if err != nil {
			return nil, err
		}
		if changed {
			result.ModifiedCount++
		}
	}
	return result, nil
}

func (s *MemoryStore) Populate(ctx context.Context, meetings []*model.Meeting, spec PopulateSpec) ([]*model.PopulatedMeeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[primitive.ObjectID]*model.User)
	for id, u := range s.users {
		if ok, err := matches(u, spec.Creator.Match); err != nil {
			return nil, err
		} else if ok {
			users[id] = u
		}
	}
	contacts := make(map[primitive.ObjectID]*model.Contact)
	for id, c := range s.contacts {
		if ok, err := matches(c, spec.Attendees.Match); err != nil {
			return nil, err
		} else if ok {
			contacts[id] = c
		}
	}
	leads := make(map[primitive.ObjectID]*model.Lead)
	for id, l := range s.leads {
		if ok, err := matches(l, spec.Leads.Match); err != nil {
			return nil, err
		} else if ok {
			leads[id] = l
		}
	}

	return Assemble(meetings, users, contacts, leads), nil
}

func (s *MemoryStore) byID(id primitive.ObjectID) *model.Meeting {
	for _, m := range s.meetings {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// applyPatch applies a $set-style patch by round-tripping through bson, and
// reports whether anything changed.
func applyPatch(m *model.Meeting, patch bson.M) (bool, error) {
	doc, err := toDoc(m)
	if err != nil {
		return false, err
	}

	changed := false
	for k, v := range patch {
		if k == "_id" {
			return false, fmt.Errorf("cannot modify _id")
		}
		if cur, ok := doc[k]; !ok || !equalValues(cur, v) {
			changed = true
		}
		doc[k] = v
	}
	if !changed {
		return false, nil
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return false, err
	}
	var updated model.Meeting
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return false, err
	}
	*m = updated
	return true, nil
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func matches(v interface{}, filter bson.M) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	doc, err := toDoc(v)
	if err != nil {
		return false, err
	}
	for key, want := range filter {
		ok, err := matchField(doc[key], want)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchField(have, want interface{}) (bool, error) {
	if op, ok := want.(bson.M); ok {
		for name, arg := range op {
			if name != "$in" {
				return false, fmt.Errorf("unsupported operator %s", name)
			}
			candidates, ok := arg.([]interface{})
			if !ok {
				return false, fmt.Errorf("$in needs an array")
			}
			for _, c := range candidates {
				if ok, err := matchField(have, c); err != nil || ok {
					return ok, err
				}
			}
			return false, nil
		}
	}

	// Arrays match when any element does.
	if arr, ok := have.(bson.A); ok {
		for _, el := range arr {
			if ok, err := matchField(el, want); err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}

	if re, ok := want.(primitive.Regex); ok {
		s, isString := have.(string)
		if !isString {
			return false, nil
		}
		pattern := re.Pattern
		if re.Options != "" {
			pattern = "(?" + re.Options + ")" + pattern
		}
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return false, err
		}
		return compiled.MatchString(s), nil
	}

	return equalValues(have, want), nil
}

func equalValues(have, want interface{}) bool {
	// a missing field only matches null
	if have == nil {
		return want == nil
	}
	return have == want
}
