package nakama

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"squirrelstash/internal/app/onboarding"
	"squirrelstash/internal/config"
	"squirrelstash/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice names new accounts and creates their player record so the
// first action does not pay for it.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}
	userID := callerID(ctx)
	if userID == "" {
		// Resolve User ID from the session token by parsing the JWT payload manually.
		resolvedID, err := extractUserIDFromToken(out.Token)
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}

	rules := config.GetRuleset()
	store := NewPlayerStore(nk, domain.NewPlayerFactory(rules, sharedRNG), sharedRNG)
	svc := onboarding.NewService(NewAccountAdapter(nk), store, sharedRNG)
	return onboardPlayer(ctx, logger, svc, userID)
}

func onboardPlayer(ctx context.Context, logger runtime.Logger, svc *onboarding.Service, userID string) error {
	logger.Info("Onboarding new user %s", userID)
	result, err := svc.OnboardNewUser(ctx, userID)
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Failed to onboard user %s: %v", userID, err)
		return err
	}
	if result.ProfileUpdateErr != nil {
		logger.Warn("AfterAuthenticateDevice: Failed to set display name for %s: %v", userID, result.ProfileUpdateErr)
	}
	return nil
}

func extractUserIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}

	payload := parts[1]
	// JWT base64 is RawUrlEncoding (no padding)
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(data, &claims); err != nil {
		return "", fmt.Errorf("failed to unmarshal token claims: %w", err)
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return "", fmt.Errorf("token claims missing uid")
	}

	return uid, nil
}
