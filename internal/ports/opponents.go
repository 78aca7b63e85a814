package ports

import (
	"context"

	"squirrelstash/internal/domain"
)

// OpponentPool finds players a Pirate can steal from.
type OpponentPool interface {
	// RandomEligibleOpponent picks uniformly among players in guildID, other than
	// excludeUserID, holding at least one card with hp above zero.
	// Returns nil, nil when nobody qualifies. The player carries its repository version.
	RandomEligibleOpponent(ctx context.Context, guildID, excludeUserID string) (*domain.Player, error)
}
