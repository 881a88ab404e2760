package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcListCollection returns the caller's card collection.
	RpcListCollection = "list_collection"

	// MatchNameTetraMaster is the authoritative match handler name registered with Nakama.
	MatchNameTetraMaster = "tetramaster_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpPlaceCard      int64 = 2
	OpChooseDefender int64 = 3
	OpStealCard      int64 = 4

	// Server -> Client events
	OpStateChanged   int64 = 101
	OpBoardSnapshot  int64 = 102
	OpBattleResolved int64 = 103
	OpGameEnded      int64 = 104
	OpGameError      int64 = 105
)

// Error codes carried by OpGameError.
const (
	errCodeBadRequest = 400
	errCodeForbidden  = 403
	errCodeConflict   = 409
	errCodeInternal   = 500
)

// Data files read at module load, relative to the Nakama data directory.
const (
	gameConfigPath = "data/game_config.json"
	opponentsPath  = "data/opponents.json"
)
