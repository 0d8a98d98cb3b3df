package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
)

// Authorizer is the explicit access check every draft operation runs before
// touching storage.
type Authorizer interface {
	CanManageSelections(ctx context.Context, actor user.Principal, ownerID string, tournamentID int64) error
	RequireAdmin(ctx context.Context, actor user.Principal) error
}

// ProfileAuthorizer lets owners manage their own picks and admins manage anything.
// Admin is granted by the token claim or by the stored profile flag.
type ProfileAuthorizer struct {
	profiles user.ProfileRepository
}

func NewProfileAuthorizer(profiles user.ProfileRepository) *ProfileAuthorizer {
	return &ProfileAuthorizer{profiles: profiles}
}

func (a *ProfileAuthorizer) CanManageSelections(ctx context.Context, actor user.Principal, ownerID string, tournamentID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Authorizer.CanManageSelections")
	defer span.End()

	actorID := strings.TrimSpace(actor.UserID)
	if actorID == "" {
		return fmt.Errorf("%w: missing actor", ErrUnauthorized)
	}
	if actorID == strings.TrimSpace(ownerID) {
		return nil
	}
	admin, err := a.isAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: user %s cannot manage selections of %s in tournament %d", ErrForbidden, actorID, ownerID, tournamentID)
	}
	return nil
}

func (a *ProfileAuthorizer) RequireAdmin(ctx context.Context, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Authorizer.RequireAdmin")
	defer span.End()

	if strings.TrimSpace(actor.UserID) == "" {
		return fmt.Errorf("%w: missing actor", ErrUnauthorized)
	}
	admin, err := a.isAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

func (a *ProfileAuthorizer) isAdmin(ctx context.Context, actor user.Principal) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	if a.profiles == nil {
		return false, nil
	}
	profile, exists, err := a.profiles.GetByID(ctx, actor.UserID)
	if err != nil {
		return false, fmt.Errorf("%w: load profile: %v", ErrDependencyUnavailable, err)
	}
	return exists && profile.IsAdmin, nil
}
