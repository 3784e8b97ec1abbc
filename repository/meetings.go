package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Innayatullahh/skydragon-test/config"
	"github.com/Innayatullahh/skydragon-test/model"
	"github.com/Innayatullahh/skydragon-test/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MeetingsRepo struct {
	MongoCollection *mongo.Collection
	Users           *mongo.Collection
	Contacts        *mongo.Collection
	Leads           *mongo.Collection
}

var _ MeetingStore = (*MeetingsRepo)(nil)

func GetMeetingsRepo(client *mongo.Client, cfg config.DatabaseConfig) *MeetingsRepo {
	db := client.Database(cfg.DatabaseName)
	return &MeetingsRepo{
		MongoCollection: db.Collection(cfg.MeetingsCollection),
		Users:           db.Collection(cfg.UsersCollection),
		Contacts:        db.Collection(cfg.ContactsCollection),
		Leads:           db.Collection(cfg.LeadsCollection),
	}
}

// Find returns every meeting matching filter, in natural order.
func (r *MeetingsRepo) Find(ctx context.Context, filter bson.M) ([]*model.Meeting, error) {
	coll := r.MongoCollection.Name()
	timer := utils.TrackDBOperation("find", coll)
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackDBError("find", coll)
		return nil, err
	}
	defer cursor.Close(ctx)

	meetings := make([]*model.Meeting, 0)
	if err = cursor.All(ctx, &meetings); err != nil {
		utils.TrackDBError("find", coll)
		return nil, err
	}
	return meetings, nil
}

func (r *MeetingsRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Meeting, error) {
	coll := r.MongoCollection.Name()
	timer := utils.TrackDBOperation("find_one", coll)
	defer timer.ObserveDuration()

	var meeting model.Meeting
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&meeting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackDBError("find_one", coll)
		return nil, err
	}
	return &meeting, nil
}

// Insert stores m, assigning an id when it has none.
func (r *MeetingsRepo) Insert(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	coll := r.MongoCollection.Name()
	timer := utils.TrackDBOperation("insert", coll)
	defer timer.ObserveDuration()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.Attendees == nil {
		m.Attendees = []primitive.ObjectID{}
	}
	if m.AttendeesLead == nil {
		m.AttendeesLead = []primitive.ObjectID{}
	}

	if _, err := r.MongoCollection.InsertOne(ctx, m); err != nil {
		utils.TrackDBError("insert", coll)
		return nil, err
	}
	return m, nil
}

// UpdateByID applies patch with $set and returns the document as it is after
// the update.
func (r *MeetingsRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*model.Meeting, error) {
	coll := r.MongoCollection.Name()
	timer := utils.TrackDBOperation("update_one", coll)
	defer timer.ObserveDuration()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var meeting model.Meeting
	err := r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts).Decode(&meeting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackDBError("update_one", coll)
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingsRepo) UpdateMany(ctx context.Context, ids []primitive.ObjectID, patch bson.M) (*UpdateResult, error) {
	coll := r.MongoCollection.Name()
	timer := utils.TrackDBOperation("update_many", coll)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": patch},
	)
	if err != nil {
		utils.TrackDBError("update_many", coll)
		return nil, err
	}
	return &UpdateResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}, nil
}

// Populate resolves the references of a batch of meetings with one query per
// referenced collection.
func (r *MeetingsRepo) Populate(ctx context.Context, meetings []*model.Meeting, spec PopulateSpec) ([]*model.PopulatedMeeting, error) {
	creatorIDs, contactIDs, leadIDs := collectRefs(meetings)

	users, err := fetchRefs(ctx, r.Users, creatorIDs, spec.Creator, func(u *model.User) primitive.ObjectID { return u.ID })
	if err != nil {
		return nil, fmt.Errorf("populate creator: %w", err)
	}
	contacts, err := fetchRefs(ctx, r.Contacts, contactIDs, spec.Attendees, func(c *model.Contact) primitive.ObjectID { return c.ID })
	if err != nil {
		return nil, fmt.Errorf("populate attendees: %w", err)
	}
	leads, err := fetchRefs(ctx, r.Leads, leadIDs, spec.Leads, func(l *model.Lead) primitive.ObjectID { return l.ID })
	if err != nil {
		return nil, fmt.Errorf("populate leads: %w", err)
	}

	return Assemble(meetings, users, contacts, leads), nil
}

func fetchRefs[T any](
	ctx context.Context,
	c *mongo.Collection,
	ids []primitive.ObjectID,
	spec RefSpec,
	idOf func(*T) primitive.ObjectID,
) (map[primitive.ObjectID]*T, error) {
	out := make(map[primitive.ObjectID]*T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	timer := utils.TrackDBOperation("populate", c.Name())
	defer timer.ObserveDuration()

	filter := bson.M{}
	for k, v := range spec.Match {
		filter[k] = v
	}
	filter["_id"] = bson.M{"$in": ids}

	opts := options.Find()
	if len(spec.Fields) > 0 {
		opts.SetProjection(projection(spec.Fields))
	}

	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackDBError("populate", c.Name())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*T
	if err := cursor.All(ctx, &docs); err != nil {
		utils.TrackDBError("populate", c.Name())
		return nil, err
	}
	for _, d := range docs {
		out[idOf(d)] = d
	}
	return out, nil
}

func projection(fields []string) bson.M {
	p := bson.M{}
	for _, f := range fields {
		p[f] = 1
	}
	return p
}
