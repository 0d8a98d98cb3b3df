package usecase

import (
	"testing"

	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func TestProfileAuthorizer(t *testing.T) {
	t.Parallel()

	db := memory.NewDatabase()
	profiles := memory.NewProfileRepository(db)
	require.NoError(t, profiles.Upsert(t.Context(), user.Profile{ID: "admin-by-profile", IsAdmin: true}))
	authz := NewProfileAuthorizer(profiles)

	tests := []struct {
		name    string
		actor   user.Principal
		owner   string
		wantErr error
	}{
		{name: "owner", actor: user.Principal{UserID: "u1"}, owner: "u1"},
		{name: "other user", actor: user.Principal{UserID: "u2"}, owner: "u1", wantErr: ErrForbidden},
		{name: "admin claim", actor: user.Principal{UserID: "u3", IsAdmin: true}, owner: "u1"},
		{name: "admin profile", actor: user.Principal{UserID: "admin-by-profile"}, owner: "u1"},
		{name: "anonymous", actor: user.Principal{}, owner: "u1", wantErr: ErrUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := authz.CanManageSelections(t.Context(), tc.actor, tc.owner, 1)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	require.NoError(t, authz.RequireAdmin(t.Context(), user.Principal{UserID: "admin-by-profile"}))
	require.ErrorIs(t, authz.RequireAdmin(t.Context(), user.Principal{UserID: "u1"}), ErrForbidden)
}
