package repository

import (
	"context"
	"time"

	"github.com/Innayatullahh/skydragon-test/config"
	"github.com/Innayatullahh/skydragon-test/model"
	"github.com/Innayatullahh/skydragon-test/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditRepo struct {
	MongoCollection *mongo.Collection
}

func GetAuditRepo(client *mongo.Client, cfg config.DatabaseConfig) *AuditRepo {
	return &AuditRepo{
		MongoCollection: client.Database(cfg.DatabaseName).Collection(cfg.AuditCollection),
	}
}

// Record appends an audit entry. Entries are never updated.
func (r *AuditRepo) Record(ctx context.Context, entry *model.AuditEntry) error {
	coll := r.MongoCollection.Name()
	timer := utils.TrackDBOperation("insert", coll)
	defer timer.ObserveDuration()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.MeetingIDs == nil {
		entry.MeetingIDs = []primitive.ObjectID{}
	}

	if _, err := r.MongoCollection.InsertOne(ctx, entry); err != nil {
		utils.TrackDBError("insert", coll)
		return err
	}
	return nil
}
