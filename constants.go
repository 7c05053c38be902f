package main

// Puzzle defaults used when a request does not name a mode, length, or
// language.
const (
	DefaultWordLength = 5
	DefaultLanguage   = "el"
	DefaultMode       = "daily"
)

// Session configuration constants
const (
	PlayerCookieName = "player_id"
)

// Route constants
const (
	RouteState       = "/api/state"
	RouteGuess       = "/api/guess"
	RouteNewGame     = "/api/new-game"
	RouteShare       = "/api/share"
	RouteLeaderboard = "/api/leaderboard"
	RouteHealthz     = "/healthz"
)

// Error message constants
const (
	ErrorGameInProgress = "Game is not finished yet."
	ErrorNotWonToday    = "Only today's winners can submit a score."
	ErrorBadRequest     = "Invalid request body."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
