// Package memory is an in-process player store used by the simulator and tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
)

// Store implements ports.PlayerRepository, ports.OpponentPool and ports.LeaderboardPort.
// A single mutex makes every Save atomic across all players it writes.
type Store struct {
	mu        sync.Mutex
	players   map[string]*domain.Player
	versions  map[string]int64
	order     []string
	best      map[string]map[string]int64 // guild -> user -> best score
	newPlayer domain.PlayerFactory
	rng       domain.RNG
}

var (
	_ ports.PlayerRepository = (*Store)(nil)
	_ ports.OpponentPool     = (*Store)(nil)
	_ ports.LeaderboardPort  = (*Store)(nil)
)

func NewStore(newPlayer domain.PlayerFactory, rng domain.RNG) *Store {
	if rng == nil {
		rng = domain.NewLockedRNG(nil)
	}
	return &Store{
		players:   make(map[string]*domain.Player),
		versions:  make(map[string]int64),
		best:      make(map[string]map[string]int64),
		newPlayer: newPlayer,
		rng:       rng,
	}
}

// Put stores p unconditionally and sets its Version.
func (s *Store) Put(p *domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(p)
}

func (s *Store) FetchOrCreate(ctx context.Context, userID string) (*domain.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.players[userID]; ok {
		return p.Clone(), nil
	}
	p := s.newPlayer(userID)
	s.write(p)
	return p.Clone(), nil
}

func (s *Store) Save(ctx context.Context, players ...*domain.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range players {
		if p.Version != s.versionOf(p.UserID) {
			return ports.ErrVersionConflict
		}
	}
	for _, p := range players {
		s.write(p)
	}
	return nil
}

func (s *Store) versionOf(userID string) string {
	v, ok := s.versions[userID]
	if !ok {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

// write must be called with mu held.
func (s *Store) write(p *domain.Player) {
	if _, ok := s.players[p.UserID]; !ok {
		s.order = append(s.order, p.UserID)
	}
	s.versions[p.UserID]++
	p.Version = s.versionOf(p.UserID)
	s.players[p.UserID] = p.Clone()
}

func (s *Store) RandomEligibleOpponent(ctx context.Context, guildID, excludeUserID string) (*domain.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var eligible []*domain.Player
	for _, id := range s.order {
		p := s.players[id]
		if id == excludeUserID || p.GuildID != guildID || len(p.Hand) == 0 || p.HP <= 0 {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return nil, nil
	}
	return eligible[s.rng.Intn(len(eligible))].Clone(), nil
}

// Submit keeps the larger of the stored and submitted score.
func (s *Store) Submit(ctx context.Context, guildID, userID string, best int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.best[guildID]
	if !ok {
		board = make(map[string]int64)
		s.best[guildID] = board
	}
	if cur, ok := board[userID]; !ok || best > cur {
		board[userID] = best
	}
	return nil
}

func (s *Store) Top(ctx context.Context, guildID string, limit int) ([]ports.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := rank(s.best[guildID])
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Store) GuildRank(ctx context.Context, guildID, userID string) (*ports.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return find(rank(s.best[guildID]), userID), nil
}

func (s *Store) GlobalRank(ctx context.Context, userID string) (*ports.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	global := make(map[string]int64)
	for _, board := range s.best {
		for id, score := range board {
			if cur, ok := global[id]; !ok || score > cur {
				global[id] = score
			}
		}
	}
	return find(rank(global), userID), nil
}

// rank orders by score descending, then user id.
func rank(board map[string]int64) []ports.LeaderboardEntry {
	out := make([]ports.LeaderboardEntry, 0, len(board))
	for id, score := range board {
		out = append(out, ports.LeaderboardEntry{UserID: id, BestScore: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BestScore != out[j].BestScore {
			return out[i].BestScore > out[j].BestScore
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		out[i].Rank = int64(i + 1)
	}
	return out
}

func find(entries []ports.LeaderboardEntry, userID string) *ports.LeaderboardEntry {
	for i := range entries {
		if entries[i].UserID == userID {
			e := entries[i]
			return &e
		}
	}
	return nil
}
