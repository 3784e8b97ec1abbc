package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting is a stored record in the Meetings collection. The bson keys follow
// the existing collection layout; attendes/createBy are not typos to fix here.
type Meeting struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Agenda        string               `bson:"agenda" json:"agenda"`
	Attendees     []primitive.ObjectID `bson:"attendes" json:"attendees"`
	AttendeesLead []primitive.ObjectID `bson:"attendesLead" json:"attendeesLead"`
	Location      string               `bson:"location,omitempty" json:"location,omitempty"`
	Related       Related              `bson:"related,omitempty" json:"related,omitempty"`
	DateTime      string               `bson:"dateTime,omitempty" json:"dateTime,omitempty"`
	Notes         string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy     primitive.ObjectID   `bson:"createBy,omitempty" json:"createdBy"`
	Timestamp     time.Time            `bson:"timestamp" json:"timestamp"`
	Deleted       bool                 `bson:"deleted" json:"deleted"`
}

// PopulatedMeeting carries a meeting together with whatever its references
// resolved to. Creator is nil when the reference is dangling or filtered out;
// Contacts and Leads hold only the references that resolved, in stored order.
type PopulatedMeeting struct {
	Meeting  *Meeting
	Creator  *User
	Contacts []*Contact
	Leads    []*Lead
}
