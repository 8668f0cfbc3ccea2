package session

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arkadelo/profilehub/internal/cache"
	"github.com/arkadelo/profilehub/internal/models"
	mongorepo "github.com/arkadelo/profilehub/internal/repositories/mongo"
	"github.com/arkadelo/profilehub/internal/utils"
)

const roleCacheTTL = 5 * time.Minute

func roleKey(uid string) string { return "role:" + uid }

// RoleReader resolves the authoritative role for an account. Reads go
// through the cache; a store failure degrades to RoleUser instead of
// failing the session, and the degradation is reported to the caller.
type RoleReader struct {
	users mongorepo.UserRepository
	cache cache.Cache
	log   *logrus.Logger
}

func NewRoleReader(users mongorepo.UserRepository, c cache.Cache, log *logrus.Logger) *RoleReader {
	return &RoleReader{users: users, cache: c, log: log}
}

// Role returns the normalized role and whether the result is degraded
// (store unreachable, defaulted to user). A missing record is a plain
// default, not a degradation.
func (r *RoleReader) Role(ctx context.Context, uid string) (models.UserRole, bool) {
	if r.cache != nil {
		var cached string
		if hit, err := r.cache.GetJSON(ctx, roleKey(uid), &cached); err == nil && hit {
			return models.NormalizeRole(cached), false
		}
	}

	rec, err := r.users.Get(ctx, uid)
	if errors.Is(err, utils.ErrNotFound) {
		return models.RoleUser, false
	}
	if err != nil {
		r.log.WithError(err).WithField("uid", uid).Warn("role fetch failed, defaulting to user")
		return models.RoleUser, true
	}

	role := models.NormalizeRole(string(rec.Role))
	if r.cache != nil {
		_ = r.cache.SetJSON(ctx, roleKey(uid), string(role), roleCacheTTL)
	}
	return role, false
}

// Invalidate drops the cached role after an explicit role change.
func (r *RoleReader) Invalidate(ctx context.Context, uid string) {
	if r.cache != nil {
		_ = r.cache.Del(ctx, roleKey(uid))
	}
}
