// Package game implements the puzzle engine: guess evaluation, keyboard
// letter-state aggregation, and the resumable session that ties evaluation,
// word selection and persistence together.
package game

import (
	"lexouli/internal/alphabet"
)

// Outcome classifies one guessed letter against the solution.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomePresent Outcome = "present"
	OutcomeAbsent  Outcome = "absent"
)

// Evaluate scores a guess against a solution using the classic two-pass
// algorithm. Both inputs are normalized before comparison, so callers may
// pass accented lowercase text. Guess and solution must be the same length;
// that is the caller's contract, not a runtime case.
//
// Pass 1 marks exact positions correct and consumes those solution slots.
// Pass 2 walks the remaining positions left to right and claims the first
// unconsumed slot holding the guessed letter, so the number of correct plus
// present outcomes for a letter never exceeds its count in the solution.
func Evaluate(alpha *alphabet.Alphabet, guess, solution string) []Outcome {
	g := []rune(alpha.Normalize(guess))
	sol := []rune(alpha.Normalize(solution))

	result := make([]Outcome, len(g))
	for i := range result {
		result[i] = OutcomeAbsent
	}

	remaining := make([]rune, len(sol))
	copy(remaining, sol)

	for i := 0; i < len(g) && i < len(sol); i++ {
		if g[i] == sol[i] {
			result[i] = OutcomeCorrect
			remaining[i] = 0
		}
	}

	for i := 0; i < len(g); i++ {
		if result[i] == OutcomeCorrect {
			continue
		}
		for j := range remaining {
			if remaining[j] != 0 && remaining[j] == g[i] {
				result[i] = OutcomePresent
				remaining[j] = 0
				break
			}
		}
	}

	return result
}

// IsExactMatch reports whether the guess equals the solution after
// normalization. This is the win condition, independent of Evaluate.
func IsExactMatch(alpha *alphabet.Alphabet, guess, solution string) bool {
	return alpha.Normalize(guess) == alpha.Normalize(solution)
}
