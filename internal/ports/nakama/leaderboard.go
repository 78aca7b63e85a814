package nakama

import (
	"context"
	"fmt"

	"squirrelstash/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// LeaderboardModule is the part of runtime.NakamaModule the leaderboard adapter needs.
type LeaderboardModule interface {
	LeaderboardCreate(ctx context.Context, id string, authoritative bool, sortOrder, operator, resetSchedule string, metadata map[string]interface{}, enableRanks bool) error
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
	LeaderboardRecordsList(ctx context.Context, id string, ownerIDs []string, limit int, cursor string, expiry int64) (records []*api.LeaderboardRecord, ownerRecords []*api.LeaderboardRecord, nextCursor string, prevCursor string, err error)
}

// Leaderboard ranks best scores per guild and globally using Nakama leaderboards
// with the "best" operator.
type Leaderboard struct {
	nk LeaderboardModule
}

var (
	_ ports.LeaderboardPort = (*Leaderboard)(nil)
	_ LeaderboardModule     = (runtime.NakamaModule)(nil)
)

func NewLeaderboard(nk LeaderboardModule) *Leaderboard {
	return &Leaderboard{nk: nk}
}

// EnsureBoard creates the leaderboard id when it does not exist yet.
func (l *Leaderboard) EnsureBoard(ctx context.Context, id string) error {
	if err := l.nk.LeaderboardCreate(ctx, id, true, leaderboardSortDesc, leaderboardOpBest, "", nil, true); err != nil {
		return fmt.Errorf("failed to create leaderboard %s: %w", id, err)
	}
	return nil
}

// Submit writes best to the guild board and the global board.
func (l *Leaderboard) Submit(ctx context.Context, guildID, userID string, best int64) error {
	boardID := guildLeaderboardID(guildID)
	if err := l.EnsureBoard(ctx, boardID); err != nil {
		return err
	}
	for _, id := range []string{boardID, GlobalLeaderboardID} {
		if _, err := l.nk.LeaderboardRecordWrite(ctx, id, userID, "", best, 0, nil, nil); err != nil {
			return fmt.Errorf("failed to write %s record for %s: %w", id, userID, err)
		}
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, guildID string, limit int) ([]ports.LeaderboardEntry, error) {
	if err := l.EnsureBoard(ctx, guildLeaderboardID(guildID)); err != nil {
		return nil, err
	}
	records, _, _, _, err := l.nk.LeaderboardRecordsList(ctx, guildLeaderboardID(guildID), nil, limit, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild %s leaderboard: %w", guildID, err)
	}
	out := make([]ports.LeaderboardEntry, 0, len(records))
	for _, r := range records {
		out = append(out, entryFromRecord(r))
	}
	return out, nil
}

func (l *Leaderboard) GuildRank(ctx context.Context, guildID, userID string) (*ports.LeaderboardEntry, error) {
	return l.ownerRank(ctx, guildLeaderboardID(guildID), userID)
}

func (l *Leaderboard) GlobalRank(ctx context.Context, userID string) (*ports.LeaderboardEntry, error) {
	return l.ownerRank(ctx, GlobalLeaderboardID, userID)
}

func (l *Leaderboard) ownerRank(ctx context.Context, id, userID string) (*ports.LeaderboardEntry, error) {
	if err := l.EnsureBoard(ctx, id); err != nil {
		return nil, err
	}
	_, owners, _, _, err := l.nk.LeaderboardRecordsList(ctx, id, []string{userID}, 1, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rank for %s: %w", id, userID, err)
	}
	for _, r := range owners {
		if r.GetOwnerId() == userID {
			e := entryFromRecord(r)
			return &e, nil
		}
	}
	return nil, nil
}

func entryFromRecord(r *api.LeaderboardRecord) ports.LeaderboardEntry {
	return ports.LeaderboardEntry{
		Rank:      r.GetRank(),
		UserID:    r.GetOwnerId(),
		BestScore: r.GetScore(),
	}
}
