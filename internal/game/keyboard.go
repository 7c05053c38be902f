package game

import (
	"lexouli/internal/alphabet"
)

// outcomeRank orders outcomes for keyboard aggregation. Higher wins.
var outcomeRank = map[Outcome]int{
	OutcomeAbsent:  1,
	OutcomePresent: 2,
	OutcomeCorrect: 3,
}

// KeyboardStates folds the evaluation history into the best-known outcome
// per letter, for keyboard highlighting. A letter's state only ever improves
// under the ordering correct > present > absent, never downgrades, so the
// result does not depend on submission order.
func KeyboardStates(alpha *alphabet.Alphabet, guesses []string, evaluations [][]Outcome) map[rune]Outcome {
	states := make(map[rune]Outcome)
	for gi, guess := range guesses {
		if gi >= len(evaluations) {
			break
		}
		row := evaluations[gi]
		for li, letter := range []rune(alpha.Normalize(guess)) {
			if li >= len(row) {
				break
			}
			next := row[li]
			if current, ok := states[letter]; !ok || outcomeRank[next] > outcomeRank[current] {
				states[letter] = next
			}
		}
	}
	return states
}
