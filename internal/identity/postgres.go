package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/utils"
)

const resetTokenTTL = time.Hour

// PostgresProvider stores credentials in the accounts table and fans
// identity-state events out to subscribers.
type PostgresProvider struct {
	db  *gorm.DB
	log *logrus.Logger

	mu     sync.Mutex
	last   Event
	subs   map[int]chan Event
	nextID int
}

func NewPostgresProvider(db *gorm.DB, log *logrus.Logger) *PostgresProvider {
	return &PostgresProvider{
		db:   db,
		log:  log,
		subs: map[int]chan Event{},
	}
}

func (p *PostgresProvider) SignUp(ctx context.Context, email, password, displayName string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, authErr(CodeInvalidEmail, "malformed email address")
	}
	if len(password) < 6 {
		return nil, authErr(CodeWeakPassword, "password must be at least 6 characters")
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, authErr(CodeEmailInUse, "an account already exists for "+email)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		CreatedAt:    now,
		LastSignInAt: now, // equal times: first-ever sign-in
	}
	if err := p.db.WithContext(ctx).Create(acct).Error; err != nil {
		return nil, err
	}

	id := identityOf(acct)
	p.publish(Event{Identity: id})
	return id, nil
}

func (p *PostgresProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var acct models.Account
	err := p.db.WithContext(ctx).Where("email = ?", email).Take(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authErr(CodeUserNotFound, "no account for "+email)
	}
	if err != nil {
		return nil, err
	}
	if acct.Disabled {
		return nil, authErr(CodeUserDisabled, "account is disabled")
	}
	if err := utils.CheckPassword(acct.PasswordHash, password); err != nil {
		return nil, authErr(CodeInvalidCredential, "password mismatch")
	}

	// The identity carries the pre-update sign-in time so the
	// first-sign-in flag is computed before the row is touched.
	id := identityOf(&acct)

	now := time.Now().UTC()
	if err := p.db.WithContext(ctx).Model(&acct).Update("last_sign_in_at", now).Error; err != nil {
		return nil, err
	}

	p.publish(Event{Identity: id})
	return id, nil
}

func (p *PostgresProvider) SendPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var acct models.Account
	err := p.db.WithContext(ctx).Where("email = ?", email).Take(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", authErr(CodeUserNotFound, "no account for "+email)
	}
	if err != nil {
		return "", err
	}

	reset := &models.PasswordReset{
		Token:     uuid.NewString(),
		AccountID: acct.ID,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := p.db.WithContext(ctx).Create(reset).Error; err != nil {
		return "", err
	}

	// No mailer here: dispatch is a structured log line.
	p.log.WithFields(logrus.Fields{
		"account_id": acct.ID,
		"email":      acct.Email,
		"expires_at": reset.ExpiresAt,
	}).Info("password reset dispatched")

	return reset.Token, nil
}

func (p *PostgresProvider) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return authErr(CodeWeakPassword, "password must be at least 6 characters")
	}

	var reset models.PasswordReset
	err := p.db.WithContext(ctx).Where("token = ?", token).Take(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.E(utils.CodeInvalidArgument, "identity.ResetPassword", "invalid reset token", nil)
	}
	if err != nil {
		return err
	}
	if reset.UsedAt != nil || time.Now().UTC().After(reset.ExpiresAt) {
		return utils.E(utils.CodeInvalidArgument, "identity.ResetPassword", "reset token expired", nil)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).Where("id = ?", reset.AccountID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Model(&models.PasswordReset{}).Where("token = ?", reset.Token).
			Update("used_at", now).Error
	})
}

func (p *PostgresProvider) UpdateProfile(ctx context.Context, uid string, displayName string, photoURL *string) error {
	updates := map[string]any{"display_name": displayName}
	if photoURL != nil {
		updates["photo_url"] = *photoURL
	}
	res := p.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", uid).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (p *PostgresProvider) SignOut(ctx context.Context, uid string) error {
	p.log.WithField("account_id", uid).Debug("signed out")
	p.publish(Event{})
	return nil
}

// Subscribe delivers the current state immediately, then every
// transition. Slow subscribers lose events rather than block sign-in.
func (p *PostgresProvider) Subscribe() (<-chan Event, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Event, 8)
	id := p.nextID
	p.nextID++
	p.subs[id] = ch

	ch <- p.last

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(c)
		}
	}
}

func (p *PostgresProvider) publish(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = ev
	for _, ch := range p.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func identityOf(a *models.Account) *Identity {
	return &Identity{
		UID:          a.ID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PhotoURL:     a.PhotoURL,
		CreatedAt:    a.CreatedAt,
		LastSignInAt: a.LastSignInAt,
	}
}
