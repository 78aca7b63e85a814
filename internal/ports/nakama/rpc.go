package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"squirrelstash/internal/app"
	"squirrelstash/internal/config"
	"squirrelstash/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Notifier is the part of runtime.NakamaModule used to tell victims about thefts.
type Notifier interface {
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
}

var _ Notifier = (runtime.NakamaModule)(nil)

var sharedRNG = domain.NewLockedRNG(nil)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcStashStart:       rpcStashStart,
		RpcStashAction:      rpcStashAction,
		RpcStashLeaderboard: rpcStashLeaderboard,
		RpcStashProfile:     rpcStashProfile,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// newService binds the use-cases to nk for one call.
func newService(nk runtime.NakamaModule) *app.Service {
	rules := config.GetRuleset()
	store := NewPlayerStore(nk, domain.NewPlayerFactory(rules, sharedRNG), sharedRNG)
	return app.NewService(store, store, NewLeaderboard(nk), rules, sharedRNG)
}

func callerID(ctx context.Context) string {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return userID
}

func decodePayload(payload string, v interface{}) error {
	if payload == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("invalid payload", codeInvalidArgument)
	}
	return nil
}

type guildRequest struct {
	GuildID string `json:"guild_id"`
}

type actionRequest struct {
	Token string `json:"token"`
}

// rpcStashStart issues a session. Payload: {"guild_id": "..."} (optional).
func rpcStashStart(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return handleStart(ctx, logger, newService(nk), payload)
}

// rpcStashAction applies an action token. Payload: {"token": "v1:..."} as listed under player.tokens.
func rpcStashAction(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return handleAction(ctx, logger, newService(nk), nk, payload)
}

// rpcStashLeaderboard returns standings. Payload: {"guild_id": "..."} (optional).
func rpcStashLeaderboard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return handleLeaderboard(ctx, logger, newService(nk), payload)
}

// rpcStashProfile returns the caller's player record.
func rpcStashProfile(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return handleProfile(ctx, logger, newService(nk))
}

func handleStart(ctx context.Context, logger runtime.Logger, svc *app.Service, payload string) (string, error) {
	userID := callerID(ctx)
	if userID == "" {
		return "", errNoUser
	}
	var req guildRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}

	res, err := svc.Start(ctx, userID, req.GuildID)
	if err != nil {
		logger.Error("RpcStashStart [User:%s]: %v", userID, err)
		return "", mapError(err)
	}
	logger.Info("RpcStashStart [User:%s]: Session %s in guild %q", userID, res.Player.SessionID, res.Player.GuildID)

	return marshalResponse(map[string]interface{}{
		"player": playerView(res.Player),
	})
}

func handleAction(ctx context.Context, logger runtime.Logger, svc *app.Service, notifier Notifier, payload string) (string, error) {
	userID := callerID(ctx)
	if userID == "" {
		return "", errNoUser
	}
	var req actionRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	action, err := app.DecodeActionToken(req.Token)
	if err != nil {
		logger.Warn("RpcStashAction [User:%s]: %v", userID, err)
		return "", mapError(err)
	}

	res, err := svc.Handle(ctx, userID, action)
	if err != nil {
		logger.Warn("RpcStashAction [User:%s]: %s rejected: %v", userID, action.Kind, err)
		return "", mapError(err)
	}
	if res.LeaderboardErr != nil {
		logger.Warn("RpcStashAction [User:%s]: Leaderboard submit failed: %v", userID, res.LeaderboardErr)
	}
	dispatchEvents(ctx, logger, notifier, res.Events)

	logger.Debug("RpcStashAction [User:%s]: %s scored %d", userID, action.Kind, res.Outcome.Points)
	return marshalResponse(map[string]interface{}{
		"action": string(res.Kind),
		"event":  eventView(res.Outcome),
		"player": playerView(res.Player),
	})
}

// dispatchEvents notifies players other than the actor. Failures are logged only.
func dispatchEvents(ctx context.Context, logger runtime.Logger, notifier Notifier, events []app.Event) {
	if notifier == nil {
		return
	}
	for _, ev := range events {
		stolen, ok := ev.Payload.(app.CardStolenPayload)
		if ev.Kind != app.EventCardStolen || !ok {
			continue
		}
		content := map[string]interface{}{
			"thief_id": stolen.ThiefID,
			"card":     stolen.Card.String(),
		}
		for _, userID := range ev.Recipients {
			if err := notifier.NotificationSend(ctx, userID, "A card was stolen from your stash", content, NotificationCardStolen, "", true); err != nil {
				logger.Warn("Failed to notify %s of stolen card: %v", userID, err)
			}
		}
	}
}

func handleLeaderboard(ctx context.Context, logger runtime.Logger, svc *app.Service, payload string) (string, error) {
	userID := callerID(ctx)
	if userID == "" {
		return "", errNoUser
	}
	var req guildRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}

	st, err := svc.Standings(ctx, userID, req.GuildID)
	if err != nil {
		logger.Error("RpcStashLeaderboard [User:%s]: %v", userID, err)
		return "", mapError(err)
	}
	return marshalResponse(standingsView(st))
}

func handleProfile(ctx context.Context, logger runtime.Logger, svc *app.Service) (string, error) {
	userID := callerID(ctx)
	if userID == "" {
		return "", errNoUser
	}
	p, err := svc.Profile(ctx, userID)
	if err != nil {
		logger.Error("RpcStashProfile [User:%s]: %v", userID, err)
		return "", mapError(err)
	}
	return marshalResponse(map[string]interface{}{
		"player": playerView(p),
	})
}
