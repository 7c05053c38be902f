package game

import (
	"strings"
	"testing"

	"lexouli/internal/alphabet"
)

func TestEvaluate(t *testing.T) {
	el := alphabet.ForLanguage(alphabet.Greek)
	tests := []struct {
		name     string
		guess    string
		solution string
		want     []Outcome
	}{
		{
			name:     "all correct",
			guess:    "ΛΟΓΟΣ",
			solution: "ΛΟΓΟΣ",
			want:     []Outcome{OutcomeCorrect, OutcomeCorrect, OutcomeCorrect, OutcomeCorrect, OutcomeCorrect},
		},
		{
			name:     "only final sigma matches",
			guess:    "ΜΕΡΑΣ",
			solution: "ΛΟΓΟΣ",
			want:     []Outcome{OutcomeAbsent, OutcomeAbsent, OutcomeAbsent, OutcomeAbsent, OutcomeCorrect},
		},
		{
			name:     "repeated guess letter capped by solution count",
			guess:    "ΟΟΟΟΟ",
			solution: "ΛΟΓΟΣ",
			want:     []Outcome{OutcomeAbsent, OutcomeCorrect, OutcomeAbsent, OutcomeCorrect, OutcomeAbsent},
		},
		{
			name:     "displaced letters",
			guess:    "ΣΟΛΟΓ",
			solution: "ΛΟΓΟΣ",
			want:     []Outcome{OutcomePresent, OutcomeCorrect, OutcomePresent, OutcomeCorrect, OutcomePresent},
		},
		{
			name:     "all absent",
			guess:    "ΤΙΜΗΝ",
			solution: "ΛΟΓΟΣ",
			want:     []Outcome{OutcomeAbsent, OutcomeAbsent, OutcomeAbsent, OutcomeAbsent, OutcomeAbsent},
		},
		{
			name:     "leftmost guess position claims the pool first",
			guess:    "ΟΟΛΛΛ",
			solution: "ΛΟΓΟΣ",
			want:     []Outcome{OutcomePresent, OutcomeCorrect, OutcomePresent, OutcomeAbsent, OutcomeAbsent},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(el, tt.guess, tt.solution)
			if len(got) != len(tt.want) {
				t.Fatalf("Evaluate returned %d outcomes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %v, want %v (row %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestEvaluateNormalizationInvariant(t *testing.T) {
	el := alphabet.ForLanguage(alphabet.Greek)
	rawGuess, rawSolution := "λόγος", "ΛΌΓΟΣ"
	plain := Evaluate(el, el.Normalize(rawGuess), el.Normalize(rawSolution))
	accented := Evaluate(el, rawGuess, rawSolution)
	for i := range plain {
		if plain[i] != accented[i] {
			t.Fatalf("evaluation differs at %d: %v vs %v", i, plain, accented)
		}
	}
}

// The duplicate-letter bound: correct+present outcomes for a letter never
// exceed that letter's count in the solution.
func TestEvaluateDuplicateLetterBound(t *testing.T) {
	el := alphabet.ForLanguage(alphabet.Greek)
	solution := "ΛΟΓΟΣ"
	guesses := []string{"ΟΟΟΟΟ", "ΣΣΣΣΣ", "ΟΛΟΛΟ", "ΓΟΓΟΣ", "ΣΟΛΟΓ"}
	for _, guess := range guesses {
		row := Evaluate(el, guess, solution)
		g := []rune(guess)
		claimed := make(map[rune]int)
		for i, outcome := range row {
			if outcome == OutcomeCorrect || outcome == OutcomePresent {
				claimed[g[i]]++
			}
		}
		for letter, n := range claimed {
			available := strings.Count(solution, string(letter))
			if n > available {
				t.Errorf("guess %s: letter %c claimed %d times, solution has %d", guess, letter, n, available)
			}
		}
	}
}

func TestEvaluateSelfIsAllCorrect(t *testing.T) {
	el := alphabet.ForLanguage(alphabet.Greek)
	for _, w := range []string{"ΛΟΓΟΣ", "ΨΩΜΙ", "ΘΑΛΑΣΣΑ", "ΔΡΟΜΟΣ"} {
		for i, outcome := range Evaluate(el, w, w) {
			if outcome != OutcomeCorrect {
				t.Errorf("Evaluate(%s, %s)[%d] = %v, want correct", w, w, i, outcome)
			}
		}
	}
}

func TestIsExactMatch(t *testing.T) {
	el := alphabet.ForLanguage(alphabet.Greek)
	if !IsExactMatch(el, "λόγος", "ΛΟΓΟΣ") {
		t.Error("accented lowercase should match after normalization")
	}
	if IsExactMatch(el, "ΛΟΓΟΣ", "ΧΟΡΟΣ") {
		t.Error("different words must not match")
	}
}
