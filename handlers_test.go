package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"lexouli/internal/alphabet"
	"lexouli/internal/daily"
	"lexouli/internal/game"
	"lexouli/internal/leaderboard"
	"lexouli/internal/storage"
)

// setupTestApp builds an App backed by in-memory stores with rate limits
// high enough to stay out of the way.
func setupTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := newApp(t.TempDir(), ":memory:", false)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(func() { app.Boards.Close() })
	app.Store = storage.NewMemoryStore()
	app.RateLimitRPS = 1000
	app.RateLimitBurst = 1000
	return app
}

// client replays the player cookie across requests, like a browser would.
type client struct {
	router  *gin.Engine
	cookies []*http.Cookie
}

func newClient(app *App) *client {
	return &client{router: app.buildRouter()}
}

func (cl *client) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		cl.cookies = append(cl.cookies, cs...)
	}
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var view sessionView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session view: %v (body: %s)", err, w.Body.String())
	}
	return view
}

// todaysWord computes the same daily word the server will select, so tests
// can win games deterministically.
func todaysWord(t *testing.T, app *App, length int) string {
	t.Helper()
	word, err := app.Selector.DailyWord(time.Now(), length, alphabet.Greek)
	if err != nil {
		t.Fatalf("DailyWord: %v", err)
	}
	return word
}

// legalNonSolution returns a word the dictionary accepts that is not today's
// solution.
func legalNonSolution(t *testing.T, app *App, length int) string {
	t.Helper()
	solution := todaysWord(t, app, length)
	list, err := app.Dict.Solutions(length, alphabet.Greek)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}
	for _, w := range list {
		if w != solution {
			return w
		}
	}
	t.Fatal("no alternative word available")
	return ""
}

func TestStateHandlerDefaults(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	w := cl.do(t, "GET", RouteState, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned status %d, want 200", RouteState, w.Code)
	}
	view := decodeView(t, w)
	if view.Mode != "daily" || view.WordLength != 5 || view.Language != "el" {
		t.Errorf("defaults = %s/%d/%s, want daily/5/el", view.Mode, view.WordLength, view.Language)
	}
	if view.Status != "playing" || view.Attempts != 0 {
		t.Errorf("fresh session status=%s attempts=%d", view.Status, view.Attempts)
	}
	if view.Solution != "" {
		t.Error("solution leaked while game in progress")
	}
	if view.GameNumber == 0 || view.Date == "" {
		t.Errorf("daily metadata missing: gameNumber=%d date=%q", view.GameNumber, view.Date)
	}
}

func TestStateHandlerUnsupportedLength(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	w := cl.do(t, "GET", RouteState+"?length=9", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("length 9 returned status %d, want 400", w.Code)
	}
}

func TestStateHandlerResumesAcrossRequests(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	guess := legalNonSolution(t, app, 5)
	w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: guess})
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned status %d: %s", RouteGuess, w.Code, w.Body.String())
	}

	view := decodeView(t, cl.do(t, "GET", RouteState, nil))
	if view.Attempts != 1 {
		t.Errorf("resumed session has %d attempts, want 1", view.Attempts)
	}
	if len(view.Guesses) != 1 || view.Guesses[0] != guess {
		t.Errorf("resumed guesses = %v, want [%s]", view.Guesses, guess)
	}
	if len(view.Keyboard) == 0 {
		t.Error("keyboard state missing after a guess")
	}
}

func TestGuessHandlerRejections(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	tests := []struct {
		name  string
		guess string
		want  int
	}{
		{"wrong length", "ΞΞ", http.StatusUnprocessableEntity},
		{"not in word list", "ΞΞΞΞΞ", http.StatusUnprocessableEntity},
		{"empty", "", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: tt.guess})
			if w.Code != tt.want {
				t.Errorf("guess %q returned status %d, want %d", tt.guess, w.Code, tt.want)
			}
		})
	}

	// Rejections must not consume attempts.
	view := decodeView(t, cl.do(t, "GET", RouteState, nil))
	if view.Attempts != 0 {
		t.Errorf("rejected guesses consumed %d attempts", view.Attempts)
	}
}

func TestGuessHandlerDuplicate(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	guess := legalNonSolution(t, app, 5)
	if w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: guess}); w.Code != http.StatusOK {
		t.Fatalf("first guess returned status %d", w.Code)
	}
	if w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: guess}); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate guess returned status %d, want 422", w.Code)
	}
}

func TestWinFlow(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	solution := todaysWord(t, app, 5)
	w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: solution})
	if w.Code != http.StatusOK {
		t.Fatalf("winning guess returned status %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.Status != "won" {
		t.Fatalf("status = %s, want won", view.Status)
	}
	if view.Solution != solution {
		t.Errorf("solution = %q, want %q revealed after win", view.Solution, solution)
	}
	if view.Stats.Played != 1 || view.Stats.Won != 1 {
		t.Errorf("stats = %+v, want played 1 won 1", view.Stats)
	}

	// Guessing after the game is over is a conflict.
	other := legalNonSolution(t, app, 5)
	if w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: other}); w.Code != http.StatusConflict {
		t.Errorf("guess after win returned status %d, want 409", w.Code)
	}

	// Share text is available once finished.
	sw := cl.do(t, "GET", RouteShare, nil)
	if sw.Code != http.StatusOK {
		t.Fatalf("GET %s returned status %d", RouteShare, sw.Code)
	}
	var share struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(sw.Body.Bytes(), &share); err != nil {
		t.Fatalf("decode share: %v", err)
	}
	if !strings.HasPrefix(share.Text, "Λεξούλι #") || !strings.Contains(share.Text, "1/6") {
		t.Errorf("unexpected share text: %q", share.Text)
	}
}

func TestShareHandlerWhileInProgress(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	if w := cl.do(t, "GET", RouteShare, nil); w.Code != http.StatusConflict {
		t.Errorf("share for unfinished game returned status %d, want 409", w.Code)
	}
}

func TestNewGameHandlerPracticeReset(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	guess := legalNonSolution(t, app, 5)
	w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: guess, Mode: "practice", WordLength: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("practice guess returned status %d", w.Code)
	}

	w = cl.do(t, "POST", RouteNewGame, newGameRequest{WordLength: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned status %d: %s", RouteNewGame, w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.Mode != "practice" || view.Status != "playing" || view.Attempts != 0 {
		t.Errorf("reset practice session = %s/%s/%d attempts", view.Mode, view.Status, view.Attempts)
	}
}

func TestLeaderboardFlow(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	// Submitting before winning is rejected.
	w := cl.do(t, "POST", RouteLeaderboard, submitScoreRequest{Nickname: "Maria", WordLength: 5})
	if w.Code != http.StatusConflict {
		t.Fatalf("submit without win returned status %d, want 409", w.Code)
	}

	solution := todaysWord(t, app, 5)
	if w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: solution}); w.Code != http.StatusOK {
		t.Fatalf("winning guess returned status %d", w.Code)
	}

	w = cl.do(t, "POST", RouteLeaderboard, submitScoreRequest{Nickname: "Maria", WordLength: 5})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit after win returned status %d: %s", w.Code, w.Body.String())
	}
	var entry leaderboard.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Attempts != 1 || entry.WordLength != 5 {
		t.Errorf("entry = %+v, want 1 attempt at length 5", entry)
	}

	// Second submission from the same player is a duplicate.
	if w := cl.do(t, "POST", RouteLeaderboard, submitScoreRequest{Nickname: "maria", WordLength: 5}); w.Code != http.StatusConflict {
		t.Errorf("duplicate submit returned status %d, want 409", w.Code)
	}

	// The board now lists the entry.
	w = cl.do(t, "GET", RouteLeaderboard+"?wordLength=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned status %d", RouteLeaderboard, w.Code)
	}
	var board struct {
		Entries []leaderboard.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].Nickname != "Maria" {
		t.Errorf("board entries = %+v, want one entry for Maria", board.Entries)
	}
}

func TestLeaderboardInvalidNickname(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	solution := todaysWord(t, app, 5)
	if w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: solution}); w.Code != http.StatusOK {
		t.Fatalf("winning guess returned status %d", w.Code)
	}
	if w := cl.do(t, "POST", RouteLeaderboard, submitScoreRequest{Nickname: "A", WordLength: 5}); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("short nickname returned status %d, want 422", w.Code)
	}
}

func TestPlayersAreIsolated(t *testing.T) {
	app := setupTestApp(t)
	router := app.buildRouter()
	first := &client{router: router}
	second := &client{router: router}

	guess := legalNonSolution(t, app, 5)
	if w := first.do(t, "POST", RouteGuess, guessRequest{Guess: guess}); w.Code != http.StatusOK {
		t.Fatalf("first player guess returned status %d", w.Code)
	}

	view := decodeView(t, second.do(t, "GET", RouteState, nil))
	if view.Attempts != 0 {
		t.Errorf("second player inherited %d attempts from first", view.Attempts)
	}
}

func TestHealthzHandler(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	w := cl.do(t, "GET", RouteHealthz, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned status %d, want 200", RouteHealthz, w.Code)
	}
	var body struct {
		Status string         `json:"status"`
		Words  map[string]int `json:"words"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Words["el"] == 0 || body.Words["en"] == 0 {
		t.Errorf("word counts missing: %v", body.Words)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app := setupTestApp(t)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 2
	app.LimiterMap = map[string]*rate.Limiter{}
	app.LimiterMutex = sync.Mutex{}
	cl := newClient(app)

	blocked := false
	for i := 0; i < 5; i++ {
		w := cl.do(t, "POST", RouteNewGame, newGameRequest{WordLength: 5})
		if w.Code == http.StatusTooManyRequests {
			blocked = true
			break
		}
	}
	if !blocked {
		t.Error("rate limiter never blocked rapid requests")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	w := cl.do(t, "GET", RouteHealthz, nil)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing from response")
	}
}

func TestEnglishVariant(t *testing.T) {
	app := setupTestApp(t)
	cl := newClient(app)

	word, err := app.Selector.DailyWord(time.Now(), 5, alphabet.English)
	if err != nil {
		t.Fatalf("DailyWord(en): %v", err)
	}
	w := cl.do(t, "POST", RouteGuess, guessRequest{Guess: word, Language: "en"})
	if w.Code != http.StatusOK {
		t.Fatalf("English guess returned status %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.Language != "en" || view.Status != string(game.StatusWon) {
		t.Errorf("English win = %s/%s", view.Language, view.Status)
	}
}

func TestDailySessionsShareWordAcrossPlayers(t *testing.T) {
	app := setupTestApp(t)
	router := app.buildRouter()
	first := &client{router: router}
	second := &client{router: router}

	solution := todaysWord(t, app, 5)
	v1 := decodeView(t, first.do(t, "POST", RouteGuess, guessRequest{Guess: solution}))
	v2 := decodeView(t, second.do(t, "POST", RouteGuess, guessRequest{Guess: solution}))
	if v1.Status != "won" || v2.Status != "won" {
		t.Errorf("both players should win with the shared word: %s/%s", v1.Status, v2.Status)
	}
	if daily.GameNumber(time.Now(), 5) != v1.GameNumber || v1.GameNumber != v2.GameNumber {
		t.Errorf("game numbers differ: %d vs %d", v1.GameNumber, v2.GameNumber)
	}
}
