package nakama

import (
	"context"

	"squirrelstash/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// AccountModule is the slice of runtime.NakamaModule the account adapter needs.
type AccountModule interface {
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// AccountAdapter implements ports.AccountPort using Nakama's account API.
type AccountAdapter struct {
	nk AccountModule
}

// NewAccountAdapter creates a new account adapter.
func NewAccountAdapter(nk AccountModule) *AccountAdapter {
	return &AccountAdapter{nk: nk}
}

// UpdateProfile sets the account username and display name.
func (a *AccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

var (
	_ ports.AccountPort = (*AccountAdapter)(nil)
	_ AccountModule     = (runtime.NakamaModule)(nil)
)
