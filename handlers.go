package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lexouli/internal/alphabet"
	"lexouli/internal/daily"
	"lexouli/internal/game"
	"lexouli/internal/leaderboard"
	"lexouli/internal/storage"
)

// puzzleParams identifies which of the independent boards a request targets.
type puzzleParams struct {
	Mode     game.Mode
	Length   int
	Language alphabet.Language
}

func parsePuzzleParams(mode, length, language string) puzzleParams {
	p := puzzleParams{
		Mode:     game.Mode(DefaultMode),
		Length:   DefaultWordLength,
		Language: alphabet.Language(DefaultLanguage),
	}
	if mode == string(game.ModePractice) {
		p.Mode = game.ModePractice
	}
	if n, err := strconv.Atoi(length); err == nil && n > 0 {
		p.Length = n
	}
	if language != "" {
		p.Language = alphabet.Language(language)
	}
	return p
}

func queryParams(c *gin.Context) puzzleParams {
	return parsePuzzleParams(c.Query("mode"), c.Query("length"), c.Query("lang"))
}

// sessionToView builds the client-facing JSON shape. The solution stays
// hidden until the session is terminal.
func (app *App) sessionToView(s *game.Session, store storage.Store) sessionView {
	keyboard := make(map[string]string)
	for letter, outcome := range s.Keyboard() {
		keyboard[string(letter)] = string(outcome)
	}

	view := sessionView{
		Mode:        string(s.Mode),
		WordLength:  s.WordLength,
		Language:    string(s.Language),
		Date:        s.Date,
		Guesses:     s.Guesses,
		Evaluations: s.Evaluations,
		Keyboard:    keyboard,
		Status:      string(s.Status),
		Attempts:    s.Attempts(),
		MaxGuesses:  game.MaxGuesses,
		Stats:       storage.GetStats(store, string(s.Mode), s.WordLength),
	}
	if s.Mode == game.ModeDaily {
		view.GameNumber = daily.GameNumber(time.Now(), s.WordLength)
		view.NextWordIn = daily.TimeUntilNextWord(time.Now()).Truncate(time.Second).String()
	}
	if s.Status != game.StatusPlaying {
		view.Solution = s.Solution
	}
	return view
}

// stateHandler starts or resumes the session for the requested board.
func (app *App) stateHandler(c *gin.Context) {
	p := queryParams(c)
	store := app.playerStore(c)

	s, err := app.Games.Start(store, p.Mode, p.Length, p.Language)
	if err != nil {
		logWarn("Failed to start %s session for length %d: %v", p.Mode, p.Length, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.sessionToView(s, store))
}

// guessHandler submits one guess against the player's current session.
// Rejected guesses do not consume an attempt; the error names the reason.
func (app *App) guessHandler(c *gin.Context) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}
	p := parsePuzzleParams(req.Mode, strconv.Itoa(req.WordLength), req.Language)
	store := app.playerStore(c)

	s, err := app.Games.Start(store, p.Mode, p.Length, p.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := app.Games.SubmitGuess(store, s, req.Guess); err != nil {
		switch {
		case errors.Is(err, game.ErrGameOver):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, game.ErrWrongLength),
			errors.Is(err, game.ErrNotInWordList),
			errors.Is(err, game.ErrDuplicateGuess):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logWarn("Guess persistence failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, app.sessionToView(s, store))
}

// newGameHandler resets the practice board with a fresh random word. Daily
// boards cannot be reset.
func (app *App) newGameHandler(c *gin.Context) {
	var req newGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}
	p := parsePuzzleParams(string(game.ModePractice), strconv.Itoa(req.WordLength), req.Language)
	store := app.playerStore(c)

	s, err := app.Games.Start(store, game.ModePractice, p.Length, p.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := app.Games.Reset(store, s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.sessionToView(s, store))
}

// shareHandler returns the emoji grid for a finished session.
func (app *App) shareHandler(c *gin.Context) {
	p := queryParams(c)
	store := app.playerStore(c)

	s, err := app.Games.Start(store, p.Mode, p.Length, p.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.Status == game.StatusPlaying {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorGameInProgress})
		return
	}
	text := game.ShareText(s.Evaluations, s.WordLength, daily.GameNumber(time.Now(), s.WordLength), s.Status == game.StatusWon)
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// leaderboardGetHandler returns today's top entries for a word length.
func (app *App) leaderboardGetHandler(c *gin.Context) {
	length := DefaultWordLength
	if n, err := strconv.Atoi(c.Query("wordLength")); err == nil && n > 0 {
		length = n
	}
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	entries, err := app.Boards.Top(c.Request.Context(), date, length)
	if err != nil {
		logWarn("Leaderboard query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "wordLength": length, "entries": entries})
}

// leaderboardPostHandler records a score for today's daily puzzle. The
// attempt count and completion time come from the player's own session, so a
// submission is only possible after an actual win.
func (app *App) leaderboardPostHandler(c *gin.Context) {
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}
	p := parsePuzzleParams(DefaultMode, strconv.Itoa(req.WordLength), req.Language)
	store := app.playerStore(c)

	s, err := app.Games.Start(store, game.ModeDaily, p.Length, p.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.Status != game.StatusWon {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorNotWonToday})
		return
	}

	attempts, seconds := app.Games.Result(s)
	entry := leaderboard.Entry{
		Nickname:   req.Nickname,
		Attempts:   attempts,
		Time:       seconds,
		WordLength: s.WordLength,
		Date:       s.Date,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := app.Boards.Submit(c.Request.Context(), entry); err != nil {
		switch {
		case errors.Is(err, leaderboard.ErrInvalidNickname),
			errors.Is(err, leaderboard.ErrInvalidAttempts):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, leaderboard.ErrAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logWarn("Leaderboard insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	wordCounts := make(map[string]int)
	for _, lang := range app.Dict.Languages() {
		total := 0
		for _, n := range app.Dict.Stats(lang) {
			total += n
		}
		wordCounts[string(lang)] = total
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words":     wordCounts,
		"uptime":    formatUptime(uptime),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
