package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"lexouli/internal/daily"
	"lexouli/internal/game"
	"lexouli/internal/leaderboard"
	"lexouli/internal/storage"
	"lexouli/internal/words"
)

type contextKey string

// App bundles the engine, the stores, and the runtime configuration shared by
// all handlers.
type App struct {
	Dict     *words.Dictionary
	Selector *daily.Selector
	Games    *game.Manager
	Store    storage.Store
	Boards   *leaderboard.Store

	IsProduction bool
	StartTime    time.Time
	CookieMaxAge time.Duration

	RateLimitRPS   int
	RateLimitBurst int
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
}

// guessRequest is the body of POST /api/guess.
type guessRequest struct {
	Guess      string `json:"guess"`
	Mode       string `json:"mode"`
	WordLength int    `json:"wordLength"`
	Language   string `json:"language"`
}

// newGameRequest is the body of POST /api/new-game.
type newGameRequest struct {
	WordLength int    `json:"wordLength"`
	Language   string `json:"language"`
}

// submitScoreRequest is the body of POST /api/leaderboard. Attempts and time
// are taken from the player's own won session, never from the client.
type submitScoreRequest struct {
	Nickname   string `json:"nickname"`
	WordLength int    `json:"wordLength"`
	Language   string `json:"language"`
}

// sessionView is the JSON shape of a session as the client sees it. The
// solution is included only once the game is over.
type sessionView struct {
	Mode        string            `json:"mode"`
	WordLength  int               `json:"wordLength"`
	Language    string            `json:"language"`
	GameNumber  int               `json:"gameNumber,omitempty"`
	Date        string            `json:"date,omitempty"`
	Guesses     []string          `json:"guesses"`
	Evaluations [][]game.Outcome  `json:"evaluations"`
	Keyboard    map[string]string `json:"keyboard"`
	Status      string            `json:"status"`
	Attempts    int               `json:"attempts"`
	MaxGuesses  int               `json:"maxGuesses"`
	Solution    string            `json:"solution,omitempty"`
	NextWordIn  string            `json:"nextWordIn,omitempty"`
	Stats       storage.Stats     `json:"stats"`
}
