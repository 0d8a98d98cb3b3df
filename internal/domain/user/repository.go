package user

import "context"

// Profile is the per-user record kept next to the identity provider.
type Profile struct {
	ID       string
	Username string
	IsAdmin  bool
}

// ProfileRepository resolves profile flags used by authorization.
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (Profile, bool, error)
}
