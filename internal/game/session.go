package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"lexouli/internal/alphabet"
	"lexouli/internal/daily"
	"lexouli/internal/storage"
	"lexouli/internal/words"
)

// MaxGuesses is the number of attempts a player gets per puzzle.
const MaxGuesses = 6

// Mode distinguishes the one-per-day puzzle from unlimited practice.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// Status is the session lifecycle state. Won and lost are terminal; the only
// way out of them is session replacement (new day, manual reset, language
// change).
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Rejection errors for guess submission. All leave the session untouched.
var (
	ErrGameOver       = errors.New("game is over")
	ErrWrongLength    = errors.New("guess has the wrong length")
	ErrNotInWordList  = errors.New("word not recognised")
	ErrDuplicateGuess = errors.New("word already guessed")
	ErrPracticeOnly   = errors.New("only practice games can be reset")
)

// Session is the resumable record of one puzzle attempt. One session exists
// per (mode, word length, language) combination; the JSON form is what gets
// persisted and restored across reloads.
type Session struct {
	Mode        Mode              `json:"mode"`
	WordLength  int               `json:"wordLength"`
	Language    alphabet.Language `json:"language"`
	Date        string            `json:"date,omitempty"` // YYYY-MM-DD UTC, daily mode only
	Solution    string            `json:"solution"`
	Guesses     []string          `json:"guesses"`
	Evaluations [][]Outcome       `json:"evaluations"`
	Status      Status            `json:"status"`
	StartedAt   time.Time         `json:"startedAt"`
}

func (s *Session) alphabet() *alphabet.Alphabet {
	return alphabet.ForLanguage(s.Language)
}

// Attempts returns the number of guesses submitted so far.
func (s *Session) Attempts() int { return len(s.Guesses) }

// Keyboard returns the aggregated best-known outcome per letter.
func (s *Session) Keyboard() map[rune]Outcome {
	return KeyboardStates(s.alphabet(), s.Guesses, s.Evaluations)
}

// Manager orchestrates sessions: starting or resuming them, accepting
// guesses, and persisting every accepted mutation so a reload reconstructs
// the exact pre-reload state.
type Manager struct {
	dict     *words.Dictionary
	selector *daily.Selector
	now      func() time.Time
}

func NewManager(dict *words.Dictionary, selector *daily.Selector) *Manager {
	return &Manager{dict: dict, selector: selector, now: time.Now}
}

func sessionKey(mode Mode, wordLength int) string {
	return fmt.Sprintf("lexouli-%s-%d", mode, wordLength)
}

func (m *Manager) today() string {
	return m.now().UTC().Format("2006-01-02")
}

// Start restores the persisted session for (mode, length, language) if it is
// still current, otherwise begins a fresh one. A length with no solutions is
// a configuration error and fails fast; callers must not substitute a
// default length.
func (m *Manager) Start(store storage.Store, mode Mode, length int, lang alphabet.Language) (*Session, error) {
	if _, err := m.dict.Solutions(length, lang); err != nil {
		return nil, err
	}

	if s := m.restore(store, mode, length, lang); s != nil {
		return s, nil
	}

	s := &Session{
		Mode:        mode,
		WordLength:  length,
		Language:    lang,
		Guesses:     []string{},
		Evaluations: [][]Outcome{},
		Status:      StatusPlaying,
		StartedAt:   m.now(),
	}
	var (
		word string
		err  error
	)
	if mode == ModeDaily {
		s.Date = m.today()
		word, err = m.selector.DailyWord(m.now(), length, lang)
	} else {
		word, err = m.selector.RandomWord(length, lang)
	}
	if err != nil {
		return nil, err
	}
	s.Solution = word

	if err := m.persist(store, s); err != nil {
		return nil, err
	}
	return s, nil
}

// restore loads and validates a persisted session. Anything wrong with the
// stored data, from unparsable JSON to a stale date or a solution from
// another alphabet, degrades to "no saved state".
func (m *Manager) restore(store storage.Store, mode Mode, length int, lang alphabet.Language) *Session {
	raw, ok := store.Get(sessionKey(mode, length))
	if !ok {
		return nil
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Printf("[WARN] Corrupt %s session for length %d, discarding: %v", mode, length, err)
		return nil
	}
	if s.Mode != mode || s.WordLength != length || s.Language != lang {
		return nil
	}
	alpha := alphabet.ForLanguage(lang)
	if alpha.Normalize(s.Solution) != s.Solution || utf8.RuneCountInString(s.Solution) != length || !alpha.IsWord(s.Solution) {
		log.Printf("[WARN] Stored %s solution does not fit %s/%d, discarding", mode, lang, length)
		return nil
	}
	if len(s.Guesses) != len(s.Evaluations) || len(s.Guesses) > MaxGuesses {
		return nil
	}
	switch s.Status {
	case StatusPlaying, StatusWon, StatusLost:
	default:
		return nil
	}
	if mode == ModeDaily && s.Date != m.today() {
		return nil
	}
	if mode == ModePractice && s.Status != StatusPlaying {
		return nil
	}
	return &s
}

// SubmitGuess validates raw input and, if accepted, evaluates it, appends it
// to the history, advances the session status, and persists the session.
// Rejected guesses return an error without consuming an attempt.
func (m *Manager) SubmitGuess(store storage.Store, s *Session, raw string) ([]Outcome, error) {
	if s.Status != StatusPlaying {
		return nil, ErrGameOver
	}

	alpha := s.alphabet()
	guess := alpha.Normalize(strings.TrimSpace(raw))
	if utf8.RuneCountInString(guess) != s.WordLength {
		return nil, ErrWrongLength
	}
	if !m.dict.IsLegalGuess(guess, s.WordLength, s.Language) {
		return nil, ErrNotInWordList
	}
	if slices.Contains(s.Guesses, guess) {
		return nil, ErrDuplicateGuess
	}

	row := Evaluate(alpha, guess, s.Solution)
	s.Guesses = append(s.Guesses, guess)
	s.Evaluations = append(s.Evaluations, row)

	if IsExactMatch(alpha, guess, s.Solution) {
		s.Status = StatusWon
	} else if len(s.Guesses) >= MaxGuesses {
		s.Status = StatusLost
	}
	if s.Status != StatusPlaying {
		storage.UpdateStats(store, string(s.Mode), s.WordLength, s.Status == StatusWon, len(s.Guesses))
	}

	if err := m.persist(store, s); err != nil {
		return row, err
	}
	return row, nil
}

// Reset discards a practice session and draws a fresh random word. Daily
// sessions cannot be reset; the day's puzzle is the day's puzzle.
func (m *Manager) Reset(store storage.Store, s *Session) error {
	if s.Mode != ModePractice {
		return ErrPracticeOnly
	}
	word, err := m.selector.RandomWord(s.WordLength, s.Language)
	if err != nil {
		return err
	}
	s.Solution = word
	s.Guesses = []string{}
	s.Evaluations = [][]Outcome{}
	s.Status = StatusPlaying
	s.StartedAt = m.now()
	return m.persist(store, s)
}

// Result reports the (attempts, elapsed seconds) tuple a win contributes to
// the leaderboard.
func (m *Manager) Result(s *Session) (attempts, seconds int) {
	return len(s.Guesses), int(m.now().Sub(s.StartedAt).Seconds())
}

func (m *Manager) persist(store storage.Store, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return store.Set(sessionKey(s.Mode, s.WordLength), string(data))
}
