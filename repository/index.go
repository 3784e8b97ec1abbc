package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Innayatullahh/skydragon-test/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(ctx context.Context, db *mongo.Database, cfg config.DatabaseConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	meetingsCollection := db.Collection(cfg.MeetingsCollection)
	auditCollection := db.Collection(cfg.AuditCollection)

	meetingIndexes := []mongo.IndexModel{
		// Visible set for list: not deleted, grouped by creator
		{
			Keys: bson.D{
				{Key: "deleted", Value: 1},
				{Key: "createBy", Value: 1},
			},
			Options: options.Index().
				SetName("deleted_creator"),
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().
				SetName("timestamp_desc"),
		},
	}

	auditIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().
				SetName("timestamp_desc"),
		},
		{
			Keys: bson.D{{Key: "meetingIds", Value: 1}},
			Options: options.Index().
				SetName("meeting_ids"),
		},
	}

	if _, err := meetingsCollection.Indexes().CreateMany(ctx, meetingIndexes); err != nil {
		return fmt.Errorf("failed to create meetings indexes: %w", err)
	}

	if _, err := auditCollection.Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}

	return nil
}
