package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StorageModule is the part of runtime.NakamaModule the player store needs.
type StorageModule interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
	MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error)
}

// playerRecord is the JSON stored under PlayerCollection/PlayerKey.
type playerRecord struct {
	SessionID string   `json:"session_id"`
	HP        int      `json:"hp"`
	Score     int      `json:"score"`
	Highscore int      `json:"highscore"`
	GuildID   string   `json:"guild_id"`
	Hand      []string `json:"hand"`
	Options   []string `json:"options"`
}

func recordFromPlayer(p *domain.Player) playerRecord {
	return playerRecord{
		SessionID: p.SessionID,
		HP:        p.HP,
		Score:     p.Score,
		Highscore: p.Highscore,
		GuildID:   p.GuildID,
		Hand:      domain.FormatCards(p.Hand),
		Options:   domain.FormatCards(p.Options),
	}
}

// decodePlayer fails with domain.ErrMalformedCard on a corrupt hand or option list.
func decodePlayer(obj *api.StorageObject) (*domain.Player, error) {
	var rec playerRecord
	if err := json.Unmarshal([]byte(obj.GetValue()), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", obj.GetUserId(), err)
	}
	hand, err := domain.ParseCards(rec.Hand)
	if err != nil {
		return nil, fmt.Errorf("player %s hand: %w", obj.GetUserId(), err)
	}
	options, err := domain.ParseCards(rec.Options)
	if err != nil {
		return nil, fmt.Errorf("player %s options: %w", obj.GetUserId(), err)
	}
	return &domain.Player{
		UserID:    obj.GetUserId(),
		SessionID: rec.SessionID,
		HP:        rec.HP,
		Score:     rec.Score,
		Highscore: rec.Highscore,
		GuildID:   rec.GuildID,
		Hand:      hand,
		Options:   options,
		Version:   obj.GetVersion(),
	}, nil
}

// PlayerStore keeps players in Nakama storage. Writes are conditional on the
// object version, so a stale save is rejected instead of overwriting.
type PlayerStore struct {
	nk        StorageModule
	newPlayer domain.PlayerFactory
	rng       domain.RNG
}

var (
	_ ports.PlayerRepository = (*PlayerStore)(nil)
	_ ports.OpponentPool     = (*PlayerStore)(nil)
	_ StorageModule          = (runtime.NakamaModule)(nil)
)

func NewPlayerStore(nk StorageModule, newPlayer domain.PlayerFactory, rng domain.RNG) *PlayerStore {
	return &PlayerStore{nk: nk, newPlayer: newPlayer, rng: rng}
}

func (s *PlayerStore) read(ctx context.Context, userID string) (*domain.Player, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: PlayerCollection,
		Key:        PlayerKey,
		UserID:     userID,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read player %s: %w", userID, err)
	}
	if len(objects) == 0 {
		return nil, nil
	}
	return decodePlayer(objects[0])
}

func (s *PlayerStore) FetchOrCreate(ctx context.Context, userID string) (*domain.Player, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}
	p, err := s.read(ctx, userID)
	if err != nil || p != nil {
		return p, err
	}

	p = s.newPlayer(userID)
	write, err := playerWrite(p)
	if err != nil {
		return nil, err
	}
	// "*" only writes when no object exists yet.
	write.Version = "*"
	acks, err := s.nk.StorageWrite(ctx, []*runtime.StorageWrite{write})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			// Created concurrently; use the winner.
			return s.read(ctx, userID)
		}
		return nil, fmt.Errorf("failed to create player %s: %w", userID, err)
	}
	if len(acks) > 0 {
		p.Version = acks[0].GetVersion()
	}
	return p, nil
}

// Save writes every player in one MultiUpdate, each conditional on its version.
func (s *PlayerStore) Save(ctx context.Context, players ...*domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	writes := make([]*runtime.StorageWrite, 0, len(players))
	for _, p := range players {
		w, err := playerWrite(p)
		if err != nil {
			return err
		}
		writes = append(writes, w)
	}

	acks, _, err := s.nk.MultiUpdate(ctx, nil, writes, nil, nil, false)
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return fmt.Errorf("%w: %v", ports.ErrVersionConflict, err)
		}
		return fmt.Errorf("failed to save players: %w", err)
	}
	for i, ack := range acks {
		if i < len(players) {
			players[i].Version = ack.GetVersion()
		}
	}
	return nil
}

func playerWrite(p *domain.Player) (*runtime.StorageWrite, error) {
	value, err := json.Marshal(recordFromPlayer(p))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player %s: %w", p.UserID, err)
	}
	version := p.Version
	if version == "" {
		version = "*"
	}
	return &runtime.StorageWrite{
		Collection:      PlayerCollection,
		Key:             PlayerKey,
		UserID:          p.UserID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}, nil
}

// RandomEligibleOpponent scans the player collection for guild members with cards
// and hearts left. Corrupt records are skipped.
func (s *PlayerStore) RandomEligibleOpponent(ctx context.Context, guildID, excludeUserID string) (*domain.Player, error) {
	var eligible []*domain.Player
	cursor := ""
	for {
		objects, next, err := s.nk.StorageList(ctx, "", "", PlayerCollection, opponentScanPageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
		for _, obj := range objects {
			if obj.GetKey() != PlayerKey || obj.GetUserId() == excludeUserID {
				continue
			}
			p, err := decodePlayer(obj)
			if err != nil {
				continue
			}
			if p.GuildID == guildID && len(p.Hand) > 0 && p.HP > 0 {
				eligible = append(eligible, p)
			}
		}
		if next == "" || next == cursor {
			break
		}
		cursor = next
	}

	if len(eligible) == 0 {
		return nil, nil
	}
	return eligible[s.rng.Intn(len(eligible))], nil
}
