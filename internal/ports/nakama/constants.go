package nakama

const (
	// RpcStashStart issues a session and records the caller's guild.
	RpcStashStart = "stash_start"
	// RpcStashAction applies one encoded action token.
	RpcStashAction = "stash_action"
	// RpcStashLeaderboard returns guild standings for the caller.
	RpcStashLeaderboard = "stash_leaderboard"
	// RpcStashProfile returns the caller's player record.
	RpcStashProfile = "stash_profile"
)

// Storage layout of player records.
const (
	PlayerCollection = "squirrelstash"
	PlayerKey        = "player"

	// opponentScanPageSize bounds each StorageList page while looking for Pirate targets.
	opponentScanPageSize = 100
)

// Leaderboards. Guild boards are created on first submit.
const (
	GlobalLeaderboardID      = "stash_global"
	guildLeaderboardIDPrefix = "stash_guild_"

	leaderboardSortDesc = "desc"
	leaderboardOpBest   = "best"
)

// Notification codes sent to players.
const (
	NotificationCardStolen = 1001
)

// Env keys read from the Nakama runtime environment.
const (
	EnvRulesetPath = "stash_ruleset_path"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument    = 3
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeAborted            = 10
	codeUnimplemented      = 12
	codeInternal           = 13
	codeUnauthenticated    = 16
)

func guildLeaderboardID(guildID string) string {
	return guildLeaderboardIDPrefix + guildID
}
