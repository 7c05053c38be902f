package storage

import (
	"encoding/json"
	"fmt"
	"log"
)

// Stats aggregates results per (mode, word length): totals, streaks and the
// distribution of winning guess counts (index 0 = won in one guess).
type Stats struct {
	Played        int    `json:"played"`
	Won           int    `json:"won"`
	CurrentStreak int    `json:"currentStreak"`
	MaxStreak     int    `json:"maxStreak"`
	Distribution  [6]int `json:"distribution"`
}

func statsKey(mode string, wordLength int) string {
	return fmt.Sprintf("lexouli-stats-%s-%d", mode, wordLength)
}

// GetStats loads the stats for a mode and word length. Missing or corrupt
// data yields zeroed stats.
func GetStats(s Store, mode string, wordLength int) Stats {
	raw, ok := s.Get(statsKey(mode, wordLength))
	if !ok {
		return Stats{}
	}
	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		log.Printf("[WARN] Corrupt stats for %s-%d, resetting: %v", mode, wordLength, err)
		return Stats{}
	}
	return stats
}

// UpdateStats records a finished game and persists the result. guessCount is
// the number of guesses used; only counted into the distribution on a win.
func UpdateStats(s Store, mode string, wordLength int, won bool, guessCount int) Stats {
	stats := GetStats(s, mode, wordLength)
	stats.Played++
	if won {
		stats.Won++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.MaxStreak {
			stats.MaxStreak = stats.CurrentStreak
		}
		if guessCount >= 1 && guessCount <= len(stats.Distribution) {
			stats.Distribution[guessCount-1]++
		}
	} else {
		stats.CurrentStreak = 0
	}

	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("[WARN] Failed to marshal stats for %s-%d: %v", mode, wordLength, err)
		return stats
	}
	if err := s.Set(statsKey(mode, wordLength), string(data)); err != nil {
		log.Printf("[WARN] Failed to save stats for %s-%d: %v", mode, wordLength, err)
	}
	return stats
}
