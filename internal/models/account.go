package models

import "time"

// Account is the identity provider's credential row. CreatedAt equal
// to LastSignInAt means the account has never signed in after signup,
// which is how the session resolver detects a first-ever sign-in.
type Account struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:text" json:"-"`
	DisplayName  string    `gorm:"column:display_name;type:text" json:"display_name"`
	PhotoURL     *string   `gorm:"column:photo_url;type:text" json:"photo_url,omitempty"`
	Disabled     bool      `gorm:"column:disabled;type:boolean;default:false" json:"disabled"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	LastSignInAt time.Time `gorm:"column:last_sign_in_at;type:timestamptz" json:"last_sign_in_at"`
}

func (Account) TableName() string { return "accounts" }

// PasswordReset is a single-use reset token issued by the identity
// provider. Dispatch is logged, not mailed.
type PasswordReset struct {
	Token     string     `gorm:"column:token;type:text;primaryKey" json:"-"`
	AccountID string     `gorm:"column:account_id;type:uuid;index" json:"account_id"`
	ExpiresAt time.Time  `gorm:"column:expires_at;type:timestamptz" json:"expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at;type:timestamptz" json:"used_at,omitempty"`
}

func (PasswordReset) TableName() string { return "password_resets" }
