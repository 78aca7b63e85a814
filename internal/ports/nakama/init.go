package nakama

import (
	"context"
	"database/sql"

	"squirrelstash/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule loads the ruleset and registers the stash RPCs and hooks.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if path := env[EnvRulesetPath]; path != "" {
		if err := config.LoadRuleset(path); err != nil {
			logger.Error("Failed to load ruleset from %s: %v", path, err)
			return err
		}
	} else {
		logger.Warn("%s not set, using the classic ruleset.", EnvRulesetPath)
	}

	if err := NewLeaderboard(nk).EnsureBoard(ctx, GlobalLeaderboardID); err != nil {
		logger.Error("Failed to create global leaderboard: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Squirrel stash Go module loaded.")
	return nil
}
