// Package daily picks puzzle words. The daily word is a pure function of
// (calendar day, word length, language): every player computes the same
// index into the same ordered solution list, so no server round trip is
// needed to agree on the day's puzzle. Practice words are uniformly random.
package daily

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"lexouli/internal/alphabet"
	"lexouli/internal/words"
)

// Epoch is the reference date daily puzzles count from. Changing it renumbers
// every past and future puzzle, so it is fixed for the life of the game.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgMask       = 0x7fffffff
)

// Selector chooses solution words from a dictionary.
type Selector struct {
	dict *words.Dictionary
}

func NewSelector(dict *words.Dictionary) *Selector {
	return &Selector{dict: dict}
}

// DayNumber returns the number of whole UTC days between the epoch and t.
// Negative for dates before the epoch.
func DayNumber(t time.Time) int {
	diff := t.UTC().Sub(Epoch)
	return int(math.Floor(diff.Seconds() / 86400))
}

// GameNumber is the stable integer identifying "today's puzzle #N" for a
// word length, used in share text. It doubles as the daily seed.
func GameNumber(t time.Time, length int) int {
	return DayNumber(t)*10 + length
}

// DailyWord returns the deterministic solution for a date, length and
// language. Same arguments, same word, on every device. An empty solution
// list is a configuration error and is returned as such, never silently
// wrapped to a default.
func (s *Selector) DailyWord(date time.Time, length int, lang alphabet.Language) (string, error) {
	solutions, err := s.dict.Solutions(length, lang)
	if err != nil {
		return "", err
	}
	if len(solutions) == 0 {
		return "", fmt.Errorf("daily: no solutions for length %d, language %q", length, lang)
	}
	idx := dailyIndex(GameNumber(date, length), len(solutions))
	return solutions[idx], nil
}

// dailyIndex runs one linear-congruential step on the seed and scales the
// 31-bit result onto [0, n). The step matches the generator the game has
// always used, so historical dates keep resolving to the same words.
func dailyIndex(seed, n int) int {
	x := (int64(seed)*lcgMultiplier + lcgIncrement) & lcgMask
	return int(float64(x) / float64(int64(lcgMask)) * float64(n))
}

// RandomWord returns a uniformly random solution for practice mode. Falls
// back to the first word if the random source fails.
func (s *Selector) RandomWord(length int, lang alphabet.Language) (string, error) {
	solutions, err := s.dict.Solutions(length, lang)
	if err != nil {
		return "", err
	}
	if len(solutions) == 0 {
		return "", fmt.Errorf("daily: no solutions for length %d, language %q", length, lang)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(solutions))))
	if err != nil {
		return solutions[0], nil
	}
	return solutions[n.Int64()], nil
}

// TimeUntilNextWord returns the duration from now until the next UTC
// midnight, when the daily word rolls over.
func TimeUntilNextWord(now time.Time) time.Duration {
	utc := now.UTC()
	next := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(utc)
}

// Countdown splits TimeUntilNextWord into whole hours, minutes and seconds
// for display.
func Countdown(now time.Time) (hours, minutes, seconds int) {
	d := TimeUntilNextWord(now)
	hours = int(d.Hours())
	minutes = int(d.Minutes()) % 60
	seconds = int(d.Seconds()) % 60
	return hours, minutes, seconds
}
