package ports

import "context"

// LeaderboardEntry is one ranked best score.
type LeaderboardEntry struct {
	Rank      int64
	UserID    string
	BestScore int64
}

// LeaderboardPort ranks players by best score (the larger of score and highscore).
type LeaderboardPort interface {
	// Submit records a player's current best score.
	Submit(ctx context.Context, guildID, userID string, best int64) error

	// Top returns the limit best entries in guildID.
	Top(ctx context.Context, guildID string, limit int) ([]LeaderboardEntry, error)

	// GuildRank returns the player's entry within guildID, or nil when unranked.
	GuildRank(ctx context.Context, guildID, userID string) (*LeaderboardEntry, error)

	// GlobalRank returns the player's entry across all guilds, or nil when unranked.
	GlobalRank(ctx context.Context, userID string) (*LeaderboardEntry, error)
}
