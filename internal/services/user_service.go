package services

import (
	"context"
	"errors"

	"github.com/arkadelo/profilehub/internal/models"
	mongorepo "github.com/arkadelo/profilehub/internal/repositories/mongo"
	"github.com/arkadelo/profilehub/internal/session"
	"github.com/arkadelo/profilehub/internal/utils"
)

// Caller identifies who is invoking a service operation, with the role
// the guard layer resolved for them.
type Caller struct {
	UID  string
	Role models.UserRole
}

func (c Caller) Admin() bool { return c.Role == models.RoleAdmin }

type UserService interface {
	GetProfile(ctx context.Context, uid string) (*models.UserRecord, error)
	SaveProfile(ctx context.Context, uid string, fields models.UserProfileFields) error
	UpdateRole(ctx context.Context, caller Caller, uid string, role string) error
}

type userService struct {
	users mongorepo.UserRepository
	roles *session.RoleReader
}

func NewUserService(users mongorepo.UserRepository, roles *session.RoleReader) UserService {
	return &userService{users: users, roles: roles}
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*models.UserRecord, error) {
	const op = "UserService.GetProfile"

	if uid == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "uid is required", nil)
	}

	u, err := s.users.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user record not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user record", err)
	}
	return u, nil
}

// SaveProfile is a merge write: absent fields stay untouched and role
// is never part of the payload.
func (s *userService) SaveProfile(ctx context.Context, uid string, fields models.UserProfileFields) error {
	const op = "UserService.SaveProfile"

	if uid == "" {
		return utils.E(utils.CodeInvalidArgument, op, "uid is required", nil)
	}
	if err := s.users.Merge(ctx, uid, fields); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save user record", err)
	}
	return nil
}

// UpdateRole is the only operation allowed to change a role, and only
// an admin caller may invoke it. The cached role is dropped so the
// change takes effect on the next request.
func (s *userService) UpdateRole(ctx context.Context, caller Caller, uid string, role string) error {
	const op = "UserService.UpdateRole"

	if !caller.Admin() {
		return utils.E(utils.CodeForbidden, op, "admin privileges required", nil)
	}
	if !models.ValidRole(role) {
		return utils.E(utils.CodeInvalidArgument, op, `invalid role, must be "admin" or "user"`, nil)
	}

	if err := s.users.SetRole(ctx, uid, models.UserRole(role)); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user record not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update role", err)
	}

	s.roles.Invalidate(ctx, uid)
	return nil
}
