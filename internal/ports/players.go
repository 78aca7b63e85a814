package ports

import (
	"context"
	"errors"

	"squirrelstash/internal/domain"
)

// ErrVersionConflict is returned by Save when a record changed since it was read.
var ErrVersionConflict = errors.New("player record version conflict")

// PlayerRepository is the system of record for players between actions.
type PlayerRepository interface {
	// FetchOrCreate returns the stored player, creating a default record on first access.
	// The returned player carries the repository version used by Save.
	FetchOrCreate(ctx context.Context, userID string) (*domain.Player, error)

	// Save writes all given players as one all-or-nothing unit. Each player's Version
	// must match the stored version, otherwise nothing is written and ErrVersionConflict
	// is returned. On success every player's Version is updated in place.
	Save(ctx context.Context, players ...*domain.Player) error
}
