package ports

import "context"

// AccountPort updates the platform account that owns a player.
type AccountPort interface {
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
