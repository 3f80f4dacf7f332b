package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RSVPStatus is an attendee's reply to an invitation.
type RSVPStatus string

const (
	RSVPPending      RSVPStatus = "Pending"
	RSVPAttending    RSVPStatus = "Attending"
	RSVPNotAttending RSVPStatus = "Not Attending"
)

// Valid reports whether s is one of the three defined statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPAttending, RSVPNotAttending:
		return true
	}
	return false
}

// Attendee is one invited account and its RSVP, embedded in an event.
// Unique by AccountID; the host is never an attendee.
type Attendee struct {
	AccountID  primitive.ObjectID `json:"user"       bson:"account_id"`
	RSVPStatus RSVPStatus         `json:"rsvpStatus" bson:"rsvp_status"`
}

// Event is a hosted gathering stored in the events collection.
type Event struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Title       string             `json:"title"       bson:"title"`
	Host        primitive.ObjectID `json:"host"        bson:"host"`
	Date        time.Time          `json:"date"        bson:"date"`
	Location    string             `json:"location"    bson:"location"`
	Description string             `json:"description" bson:"description"`
	Attendees   []Attendee         `json:"attendees"   bson:"attendees"`
	CreatedAt   time.Time          `json:"created_at"  bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"  bson:"updated_at"`
}

// AttendeeDetail is an attendee with the account populated.
type AttendeeDetail struct {
	User       AccountSummary `json:"user"`
	RSVPStatus RSVPStatus     `json:"rsvpStatus"`
}

// EventDetail is an event with host and attendees populated.
type EventDetail struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Host        AccountSummary     `json:"host"`
	Date        time.Time          `json:"date"`
	Location    string             `json:"location"`
	Description string             `json:"description"`
	Attendees   []AttendeeDetail   `json:"attendees"`
	CreatedAt   time.Time          `json:"created_at"`
}

// EventWithHost is a list item for an account's events: the event plus the
// host's username.
type EventWithHost struct {
	Event
	HostSummary AccountSummary `json:"hostSummary"`
}

// CreateEventRequest is the JSON body for POST /api/events.
type CreateEventRequest struct {
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	InvitedFriends []string  `json:"invitedFriends"`
}

// RSVPRequest is the JSON body for PUT /api/events/{id}/rsvp.
type RSVPRequest struct {
	RSVPStatus RSVPStatus `json:"rsvpStatus"`
}
