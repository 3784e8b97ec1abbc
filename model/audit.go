package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditMeetingCreated      AuditAction = "meeting.created"
	AuditMeetingDeleted      AuditAction = "meeting.deleted"
	AuditMeetingBatchDeleted AuditAction = "meeting.batch_deleted"
)

// AuditEntry records a mutation made through this service.
type AuditEntry struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Actor      primitive.ObjectID   `bson:"actor" json:"actor"`
	Action     AuditAction          `bson:"action" json:"action"`
	MeetingIDs []primitive.ObjectID `bson:"meetingIds" json:"meetingIds"`
	Client     string               `bson:"client,omitempty" json:"client,omitempty"`
	RequestID  string               `bson:"requestId,omitempty" json:"requestId,omitempty"`
	Timestamp  time.Time            `bson:"timestamp" json:"timestamp"`
}
