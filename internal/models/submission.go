package models

import "time"

// Submission is one profile entry in the "submissions" collection.
// UserID is a plain reference to a UserRecord, not enforced by the
// store: deleting a user orphans its submissions.
type Submission struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Location    string    `bson:"location" json:"location"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL    *string   `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// SubmissionFields carries the mutable part of a Submission through
// the create and update paths. Timestamp is stamped by the repository
// on create and never rewritten.
type SubmissionFields struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}
