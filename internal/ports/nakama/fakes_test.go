package nakama

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// fakeStorage mimics Nakama's conditional storage writes: "*" only creates,
// any other non-empty version must match the stored one.
type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string]*api.StorageObject // keyed by user id
	seq      int
	pageSize int
	writes   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]*api.StorageObject)}
}

func (f *fakeStorage) put(userID, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.objects[userID] = &api.StorageObject{
		Collection: PlayerCollection,
		Key:        PlayerKey,
		UserId:     userID,
		Value:      value,
		Version:    strconv.Itoa(f.seq),
	}
}

func cloneObject(obj *api.StorageObject) *api.StorageObject {
	return &api.StorageObject{
		Collection: obj.Collection,
		Key:        obj.Key,
		UserId:     obj.UserId,
		Value:      obj.Value,
		Version:    obj.Version,
	}
}

func (f *fakeStorage) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.objects[r.UserID]; ok && r.Collection == obj.Collection && r.Key == obj.Key {
			out = append(out, cloneObject(obj))
		}
	}
	return out, nil
}

func (f *fakeStorage) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	acks, _, err := f.MultiUpdate(ctx, nil, writes, nil, nil, false)
	return acks, err
}

func (f *fakeStorage) StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.objects))
	for id := range f.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if f.pageSize > 0 && f.pageSize < limit {
		limit = f.pageSize
	}
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("bad cursor")
		}
		start = n
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	var out []*api.StorageObject
	for _, id := range ids[start:end] {
		out = append(out, cloneObject(f.objects[id]))
	}
	next := ""
	if end < len(ids) {
		next = strconv.Itoa(end)
	}
	return out, next, nil
}

func (f *fakeStorage) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, w := range storageWrites {
		existing, ok := f.objects[w.UserID]
		switch {
		case w.Version == "*" && ok:
			return nil, nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!ok || existing.Version != w.Version):
			return nil, nil, runtime.ErrStorageRejectedVersion
		}
	}

	acks := make([]*api.StorageObjectAck, 0, len(storageWrites))
	for _, w := range storageWrites {
		f.seq++
		f.writes++
		version := strconv.Itoa(f.seq)
		f.objects[w.UserID] = &api.StorageObject{
			Collection:      w.Collection,
			Key:             w.Key,
			UserId:          w.UserID,
			Value:           w.Value,
			Version:         version,
			PermissionRead:  int32(w.PermissionRead),
			PermissionWrite: int32(w.PermissionWrite),
		}
		acks = append(acks, &api.StorageObjectAck{
			Collection: w.Collection,
			Key:        w.Key,
			Version:    version,
			UserId:     w.UserID,
		})
	}
	return acks, nil, nil
}

// fakeLeaderboards keeps best scores per board with Nakama's "best" operator.
type fakeLeaderboards struct {
	boards map[string]map[string]int64
	failOn string
}

func newFakeLeaderboards() *fakeLeaderboards {
	return &fakeLeaderboards{boards: make(map[string]map[string]int64)}
}

func (f *fakeLeaderboards) LeaderboardCreate(ctx context.Context, id string, authoritative bool, sortOrder, operator, resetSchedule string, metadata map[string]interface{}, enableRanks bool) error {
	if _, ok := f.boards[id]; !ok {
		f.boards[id] = make(map[string]int64)
	}
	return nil
}

func (f *fakeLeaderboards) LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error) {
	if id == f.failOn {
		return nil, fmt.Errorf("leaderboard %s unavailable", id)
	}
	board, ok := f.boards[id]
	if !ok {
		return nil, fmt.Errorf("leaderboard %s not found", id)
	}
	if cur, ok := board[ownerID]; !ok || score > cur {
		board[ownerID] = score
	}
	return &api.LeaderboardRecord{LeaderboardId: id, OwnerId: ownerID, Score: board[ownerID]}, nil
}

func (f *fakeLeaderboards) LeaderboardRecordsList(ctx context.Context, id string, ownerIDs []string, limit int, cursor string, expiry int64) ([]*api.LeaderboardRecord, []*api.LeaderboardRecord, string, string, error) {
	board, ok := f.boards[id]
	if !ok {
		return nil, nil, "", "", fmt.Errorf("leaderboard %s not found", id)
	}
	ids := make([]string, 0, len(board))
	for owner := range board {
		ids = append(ids, owner)
	}
	sort.Slice(ids, func(i, j int) bool {
		if board[ids[i]] != board[ids[j]] {
			return board[ids[i]] > board[ids[j]]
		}
		return ids[i] < ids[j]
	})
	ranked := make([]*api.LeaderboardRecord, 0, len(ids))
	for i, owner := range ids {
		ranked = append(ranked, &api.LeaderboardRecord{LeaderboardId: id, OwnerId: owner, Score: board[owner], Rank: int64(i + 1)})
	}

	var owners []*api.LeaderboardRecord
	for _, want := range ownerIDs {
		for _, r := range ranked {
			if r.OwnerId == want {
				owners = append(owners, r)
			}
		}
	}
	records := ranked
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, owners, "", "", nil
}

type sentNotification struct {
	userID  string
	code    int
	content map[string]interface{}
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error {
	f.sent = append(f.sent, sentNotification{userID: userID, code: code, content: content})
	return nil
}

type fakeAccounts struct {
	displayNames map[string]string
	err          error
}

func (f *fakeAccounts) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	if f.err != nil {
		return f.err
	}
	if f.displayNames == nil {
		f.displayNames = make(map[string]string)
	}
	f.displayNames[userID] = displayName
	return nil
}
