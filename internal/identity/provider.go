package identity

import (
	"context"
	"time"
)

// Identity is the provider-side view of an authenticated account.
// CreatedAt equal to LastSignInAt marks a first-ever sign-in.
type Identity struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

func (id *Identity) FirstSignIn() bool {
	if id == nil {
		return false
	}
	return id.CreatedAt.Equal(id.LastSignInAt)
}

// Event is one identity-state transition. Identity is nil when the
// subject signed out.
type Event struct {
	Identity *Identity
}

// Provider is the identity surface the rest of the app consumes:
// credential sign-in, account creation, reset dispatch, profile-field
// updates, sign-out, and a push-based state stream.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SendPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, uid string, displayName string, photoURL *string) error
	SignOut(ctx context.Context, uid string) error

	// Subscribe fires once immediately with the current state, then on
	// every sign-in/sign-out. The returned func cancels the subscription.
	Subscribe() (<-chan Event, func())
}
