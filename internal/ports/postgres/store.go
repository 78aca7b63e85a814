// Package postgres stores players and scores in PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store implements the player repository, opponent pool and leaderboard.
// Save runs in one transaction and locks every row it writes.
type Store struct {
	db        *gorm.DB
	newPlayer domain.PlayerFactory
	rng       domain.RNG
}

var (
	_ ports.PlayerRepository = (*Store)(nil)
	_ ports.OpponentPool     = (*Store)(nil)
	_ ports.LeaderboardPort  = (*Store)(nil)
)

// Open connects to dsn with gorm's postgres driver.
func Open(dsn string, log logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func NewStore(db *gorm.DB, newPlayer domain.PlayerFactory, rng domain.RNG) *Store {
	if rng == nil {
		rng = domain.NewLockedRNG(nil)
	}
	return &Store{db: db, newPlayer: newPlayer, rng: rng}
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&playerRow{}, &scoreRow{})
}

func (s *Store) FetchOrCreate(ctx context.Context, userID string) (*domain.Player, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}
	db := s.db.WithContext(ctx)

	var row playerRow
	err := db.Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := rowFromPlayer(s.newPlayer(userID))
		fresh.Version = 1
		// A concurrent create wins; the read below returns whichever row exists.
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, fmt.Errorf("create player %s: %w", userID, err)
		}
		err = db.Where("user_id = ?", userID).Take(&row).Error
	}
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", userID, err)
	}
	return row.toPlayer()
}

// Save locks each row in user id order, checks its version and writes it. Any
// mismatch rolls the whole transaction back with ports.ErrVersionConflict.
func (s *Store) Save(ctx context.Context, players ...*domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	ordered := append([]*domain.Player(nil), players...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].UserID < ordered[j].UserID })

	next := make(map[*domain.Player]int64, len(ordered))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range ordered {
			want, err := parseVersion(p.Version)
			if err != nil {
				return fmt.Errorf("%w: bad version %q", ports.ErrVersionConflict, p.Version)
			}

			var current playerRow
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", p.UserID).
				Take(&current).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if want != 0 {
					return ports.ErrVersionConflict
				}
				row := rowFromPlayer(p)
				row.Version = 1
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert player %s: %w", p.UserID, err)
				}
				next[p] = row.Version
				continue
			case err != nil:
				return fmt.Errorf("lock player %s: %w", p.UserID, err)
			}
			if current.Version != want {
				return ports.ErrVersionConflict
			}

			row := rowFromPlayer(p)
			row.Version = current.Version + 1
			row.CreatedAt = current.CreatedAt
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("update player %s: %w", p.UserID, err)
			}
			next[p] = row.Version
		}
		return nil
	})
	if err != nil {
		return err
	}
	for p, v := range next {
		p.Version = formatVersion(v)
	}
	return nil
}

func (s *Store) RandomEligibleOpponent(ctx context.Context, guildID, excludeUserID string) (*domain.Player, error) {
	eligible := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&playerRow{}).
			Where("guild_id = ? AND user_id <> ? AND hp > 0 AND hand <> ?", guildID, excludeUserID, "[]")
	}

	var n int64
	if err := eligible().Count(&n).Error; err != nil {
		return nil, fmt.Errorf("count opponents: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	var row playerRow
	err := eligible().Order("user_id").Offset(s.rng.Intn(int(n))).Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The pool shrank between the two queries.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pick opponent: %w", err)
	}
	return row.toPlayer()
}
