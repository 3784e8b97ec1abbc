package dto

import (
	"time"

	"github.com/Innayatullahh/skydragon-test/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateMeetingRequest is the body accepted by POST /api/meetings. It has no
// createdBy, timestamp or deleted fields; those are stamped server-side.
type CreateMeetingRequest struct {
	Agenda        string   `json:"agenda" binding:"required"`
	Attendees     []string `json:"attendees" binding:"omitempty,dive,objectid"`
	AttendeesLead []string `json:"attendeesLead" binding:"omitempty,dive,objectid"`
	Location      string   `json:"location"`
	Related       string   `json:"related" binding:"omitempty,related"`
	DateTime      string   `json:"dateTime"`
	Notes         string   `json:"notes"`
}

// MeetingRecord is the stored shape of a meeting as returned by create and
// delete.
type MeetingRecord struct {
	ID            string        `json:"_id"`
	Agenda        string        `json:"agenda"`
	Attendees     []string      `json:"attendees"`
	AttendeesLead []string      `json:"attendeesLead"`
	Location      string        `json:"location,omitempty"`
	Related       model.Related `json:"related,omitempty"`
	DateTime      string        `json:"dateTime,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedBy     string        `json:"createdBy"`
	Timestamp     time.Time     `json:"timestamp"`
	Deleted       bool          `json:"deleted"`
}

type CreatorSummary struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type ContactSummary struct {
	ID          string `json:"_id"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type LeadSummary struct {
	ID              string `json:"_id"`
	LeadName        string `json:"leadName,omitempty"`
	LeadEmail       string `json:"leadEmail,omitempty"`
	LeadPhoneNumber string `json:"leadPhoneNumber,omitempty"`
	LeadStatus      string `json:"leadStatus,omitempty"`
}

// MeetingView is a meeting with its references resolved, as returned by list
// and get.
type MeetingView struct {
	MeetingRecord
	Creator          *CreatorSummary  `json:"creator,omitempty"`
	AttendeeContacts []ContactSummary `json:"attendeeContacts"`
	AttendeeLeads    []LeadSummary    `json:"attendeeLeads"`
	CreatedByName    string           `json:"createdByName"`
	AttendeesArray   []string         `json:"attendeesArray"`
}

type BatchDeleteResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

func ToMeetingRecord(m *model.Meeting) MeetingRecord {
	record := MeetingRecord{
		ID:            hexOrEmpty(m.ID),
		Agenda:        m.Agenda,
		Attendees:     hexList(m.Attendees),
		AttendeesLead: hexList(m.AttendeesLead),
		Location:      m.Location,
		Related:       m.Related.Canonical(),
		DateTime:      m.DateTime,
		Notes:         m.Notes,
		CreatedBy:     hexOrEmpty(m.CreatedBy),
		Timestamp:     m.Timestamp,
		Deleted:       m.Deleted,
	}
	return record
}

// ToMeetingView builds the response for a populated meeting. createdByName is
// the creator's username or empty; attendeesArray lists resolved contact
// emails followed by resolved lead emails, skipping blanks.
func ToMeetingView(p *model.PopulatedMeeting) MeetingView {
	view := MeetingView{
		MeetingRecord:    ToMeetingRecord(p.Meeting),
		AttendeeContacts: make([]ContactSummary, 0, len(p.Contacts)),
		AttendeeLeads:    make([]LeadSummary, 0, len(p.Leads)),
		AttendeesArray:   make([]string, 0, len(p.Contacts)+len(p.Leads)),
	}

	if p.Creator != nil {
		view.Creator = &CreatorSummary{
			ID:        p.Creator.ID.Hex(),
			Username:  p.Creator.Username,
			FirstName: p.Creator.FirstName,
			LastName:  p.Creator.LastName,
		}
		view.CreatedByName = p.Creator.Username
	}

	for _, c := range p.Contacts {
		view.AttendeeContacts = append(view.AttendeeContacts, ContactSummary{
			ID:          c.ID.Hex(),
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Title:       c.Title,
			Email:       c.Email,
			PhoneNumber: c.PhoneNumber,
		})
		if c.Email != "" {
			view.AttendeesArray = append(view.AttendeesArray, c.Email)
		}
	}

	for _, l := range p.Leads {
		view.AttendeeLeads = append(view.AttendeeLeads, LeadSummary{
			ID:              l.ID.Hex(),
			LeadName:        l.LeadName,
			LeadEmail:       l.LeadEmail,
			LeadPhoneNumber: l.LeadPhoneNumber,
			LeadStatus:      l.LeadStatus,
		})
		if l.LeadEmail != "" {
			view.AttendeesArray = append(view.AttendeesArray, l.LeadEmail)
		}
	}

	return view
}

func ToMeetingViews(populated []*model.PopulatedMeeting) []MeetingView {
	views := make([]MeetingView, len(populated))
	for i, p := range populated {
		views[i] = ToMeetingView(p)
	}
	return views
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func hexList(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
