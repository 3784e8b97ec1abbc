package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User, Contact and Lead are owned by other services. This module only reads
// them to resolve meeting references.

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Deleted   bool               `bson:"deleted" json:"-"`
}

type Contact struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName   string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName    string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Deleted     bool               `bson:"deleted" json:"-"`
}

type Lead struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	LeadName        string             `bson:"leadName,omitempty" json:"leadName,omitempty"`
	LeadEmail       string             `bson:"leadEmail,omitempty" json:"leadEmail,omitempty"`
	LeadPhoneNumber string             `bson:"leadPhoneNumber,omitempty" json:"leadPhoneNumber,omitempty"`
	LeadStatus      string             `bson:"leadStatus,omitempty" json:"leadStatus,omitempty"`
	Deleted         bool               `bson:"deleted" json:"-"`
}
