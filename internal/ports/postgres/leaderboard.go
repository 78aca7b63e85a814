package postgres

import (
	"context"
	"fmt"
	"time"

	"squirrelstash/internal/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const guildRankSQL = `
SELECT rank, user_id, best_score FROM (
	SELECT user_id, best_score,
		ROW_NUMBER() OVER (ORDER BY best_score DESC, user_id ASC) AS rank
	FROM stash_scores WHERE guild_id = ?
) ranked WHERE user_id = ?`

const globalRankSQL = `
SELECT rank, user_id, best_score FROM (
	SELECT user_id, best_score,
		ROW_NUMBER() OVER (ORDER BY best_score DESC, user_id ASC) AS rank
	FROM (SELECT user_id, MAX(best_score) AS best_score FROM stash_scores GROUP BY user_id) best
) ranked WHERE user_id = ?`

// Submit keeps the larger of the stored and submitted score.
func (s *Store) Submit(ctx context.Context, guildID, userID string, best int64) error {
	row := scoreRow{GuildID: guildID, UserID: userID, BestScore: best, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guild_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"best_score": gorm.Expr("GREATEST(stash_scores.best_score, EXCLUDED.best_score)"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("submit score for %s: %w", userID, err)
	}
	return nil
}

func (s *Store) Top(ctx context.Context, guildID string, limit int) ([]ports.LeaderboardEntry, error) {
	var rows []scoreRow
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("best_score DESC").Order("user_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top scores for %s: %w", guildID, err)
	}
	out := make([]ports.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		out = append(out, ports.LeaderboardEntry{Rank: int64(i + 1), UserID: r.UserID, BestScore: r.BestScore})
	}
	return out, nil
}

func (s *Store) GuildRank(ctx context.Context, guildID, userID string) (*ports.LeaderboardEntry, error) {
	return s.rank(ctx, guildRankSQL, guildID, userID)
}

func (s *Store) GlobalRank(ctx context.Context, userID string) (*ports.LeaderboardEntry, error) {
	return s.rank(ctx, globalRankSQL, userID)
}

func (s *Store) rank(ctx context.Context, query string, args ...interface{}) (*ports.LeaderboardEntry, error) {
	var rows []rankRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("rank query: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &ports.LeaderboardEntry{Rank: r.Rank, UserID: r.UserID, BestScore: r.BestScore}, nil
}
