package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a registered user stored in the accounts collection.
//
// Friends and PendingRequests hold account ids; Events holds event ids the
// account hosts or is invited to. All three are treated as sets: every write
// goes through $addToSet/$pull so duplicate appends are no-ops.
type Account struct {
	ID              primitive.ObjectID   `json:"id"              bson:"_id,omitempty"`
	Username        string               `json:"username"        bson:"username"`
	Email           string               `json:"email"           bson:"email"`
	Password        string               `json:"-"               bson:"password"` // bcrypt hash, never serialized
	Friends         []primitive.ObjectID `json:"friends"         bson:"friends"`
	PendingRequests []primitive.ObjectID `json:"pendingRequests" bson:"pending_requests"`
	Events          []primitive.ObjectID `json:"events"          bson:"events"`
	CreatedAt       time.Time            `json:"created_at"      bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"      bson:"updated_at"`
}

// AccountSummary is the public view of an account embedded in profiles,
// search results and event details.
type AccountSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

// Summary strips an account down to its public fields.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Username: a.Username, Email: a.Email}
}

// Profile is an account with friends and pending requests populated.
type Profile struct {
	ID              primitive.ObjectID   `json:"id"`
	Username        string               `json:"username"`
	Email           string               `json:"email"`
	Friends         []AccountSummary     `json:"friends"`
	PendingRequests []AccountSummary     `json:"pendingRequests"`
	Events          []primitive.ObjectID `json:"events"`
	CreatedAt       time.Time            `json:"created_at"`
}

// RegisterRequest is the JSON body for POST /api/users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login: a bearer token plus the
// public view of the account.
type AuthResponse struct {
	Token string         `json:"token"`
	User  AccountSummary `json:"user"`
}
