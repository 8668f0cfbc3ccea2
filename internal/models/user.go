package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// NormalizeRole maps anything outside the known set to RoleUser.
func NormalizeRole(s string) UserRole {
	switch UserRole(s) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

func ValidRole(s string) bool {
	return UserRole(s) == RoleAdmin || UserRole(s) == RoleUser
}

// UserRecord is the application-level user document in the "users"
// collection, keyed by the identity provider's account id. Role lives
// here, not on the account: the account only authenticates, the record
// authorizes.
type UserRecord struct {
	UID         string    `bson:"_id" json:"uid"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Role        UserRole  `bson:"role" json:"role"`
	PhotoURL    *string   `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// UserProfileFields is the merge payload for a UserRecord write. Nil
// pointers are left untouched in the stored document; Role is absent
// on purpose, only SetRole may change it.
type UserProfileFields struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Location    *string `json:"location,omitempty"`
}
