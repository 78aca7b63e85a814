package postgres

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
)

// openTestStore connects to STASH_TEST_DATABASE_DSN or skips.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("STASH_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("STASH_TEST_DATABASE_DSN not set")
	}
	db, err := Open(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	rng := domain.NewLockedRNG(rand.New(rand.NewSource(1)))
	s := NewStore(db, domain.NewPlayerFactory(domain.DefaultRuleset(), rng), rng)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestStoreSaveChecksVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	a, err := s.FetchOrCreate(ctx, id)
	require.NoError(t, err)
	b, err := s.FetchOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1", a.Version)

	a.Score = 10
	require.NoError(t, s.Save(ctx, a))
	assert.Equal(t, "2", a.Version)

	b.Score = 99
	assert.ErrorIs(t, s.Save(ctx, b), ports.ErrVersionConflict)

	got, err := s.FetchOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Score)
}

func TestStoreSavePairRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	thiefID, victimID := uuid.NewString(), uuid.NewString()

	thief, err := s.FetchOrCreate(ctx, thiefID)
	require.NoError(t, err)
	victim, err := s.FetchOrCreate(ctx, victimID)
	require.NoError(t, err)

	own := victim.Clone()
	own.Score = 3
	require.NoError(t, s.Save(ctx, own))

	thief.Score = 50
	assert.ErrorIs(t, s.Save(ctx, thief, victim), ports.ErrVersionConflict)

	got, err := s.FetchOrCreate(ctx, thiefID)
	require.NoError(t, err)
	assert.Zero(t, got.Score)
}

func TestStoreOpponentsAndRanks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	guild := uuid.NewString()
	me, target := uuid.NewString(), uuid.NewString()

	for _, id := range []string{me, target} {
		p, err := s.FetchOrCreate(ctx, id)
		require.NoError(t, err)
		p.GuildID = guild
		p.Hand = domain.Hand{{Suit: domain.SuitAcorn, Rank: domain.RankTwo}}
		require.NoError(t, s.Save(ctx, p))
	}

	got, err := s.RandomEligibleOpponent(ctx, guild, me)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, target, got.UserID)

	require.NoError(t, s.Submit(ctx, guild, me, 40))
	require.NoError(t, s.Submit(ctx, guild, target, 60))
	require.NoError(t, s.Submit(ctx, guild, target, 20))

	top, err := s.Top(ctx, guild, 3)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, target, top[0].UserID)
	assert.Equal(t, int64(60), top[0].BestScore)

	rank, err := s.GuildRank(ctx, guild, me)
	require.NoError(t, err)
	require.NotNil(t, rank)
	assert.Equal(t, int64(2), rank.Rank)
}
