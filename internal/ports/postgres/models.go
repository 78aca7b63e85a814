package postgres

import (
	"strconv"
	"time"

	"squirrelstash/internal/domain"
)

// playerRow is the persisted player. Version increments on every write.
type playerRow struct {
	UserID    string   `gorm:"primaryKey;type:varchar(128)"`
	SessionID string   `gorm:"type:varchar(64)"`
	HP        int      `gorm:"not null"`
	Score     int      `gorm:"not null;default:0"`
	Highscore int      `gorm:"not null;default:0"`
	GuildID   string   `gorm:"index;type:varchar(128)"`
	Hand      []string `gorm:"type:text;serializer:json"`
	Options   []string `gorm:"type:text;serializer:json"`
	Version   int64    `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (playerRow) TableName() string { return "stash_players" }

// scoreRow is one best score on a guild board.
type scoreRow struct {
	GuildID   string `gorm:"primaryKey;type:varchar(128)"`
	UserID    string `gorm:"primaryKey;type:varchar(128)"`
	BestScore int64  `gorm:"not null;index"`
	UpdatedAt time.Time
}

func (scoreRow) TableName() string { return "stash_scores" }

// rankRow is the result shape of the ranking queries.
type rankRow struct {
	Rank      int64
	UserID    string
	BestScore int64
}

func rowFromPlayer(p *domain.Player) playerRow {
	return playerRow{
		UserID:    p.UserID,
		SessionID: p.SessionID,
		HP:        p.HP,
		Score:     p.Score,
		Highscore: p.Highscore,
		GuildID:   p.GuildID,
		Hand:      domain.FormatCards(p.Hand),
		Options:   domain.FormatCards(p.Options),
	}
}

func (r playerRow) toPlayer() (*domain.Player, error) {
	hand, err := domain.ParseCards(r.Hand)
	if err != nil {
		return nil, err
	}
	options, err := domain.ParseCards(r.Options)
	if err != nil {
		return nil, err
	}
	return &domain.Player{
		UserID:    r.UserID,
		SessionID: r.SessionID,
		HP:        r.HP,
		Score:     r.Score,
		Highscore: r.Highscore,
		GuildID:   r.GuildID,
		Hand:      hand,
		Options:   options,
		Version:   formatVersion(r.Version),
	}, nil
}

func formatVersion(v int64) string {
	return strconv.FormatInt(v, 10)
}

// parseVersion returns 0 for the empty version of a never-saved player.
func parseVersion(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
