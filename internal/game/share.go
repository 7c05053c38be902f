package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Symbols used in the shareable result grid, one per outcome class.
const (
	shareCorrect = "🟩"
	sharePresent = "🟨"
	shareAbsent  = "⬛"
)

// ShareText renders the fixed-width result grid players paste into chats:
// a header with the puzzle number, word length and attempts used, then one
// emoji row per evaluation.
func ShareText(evaluations [][]Outcome, wordLength, gameNumber int, won bool) string {
	attempts := "X"
	if won {
		attempts = fmt.Sprintf("%d", len(evaluations))
	}
	header := fmt.Sprintf("Λεξούλι #%d (%d) %s/6\n\n", gameNumber, wordLength, attempts)

	rows := lo.Map(evaluations, func(row []Outcome, _ int) string {
		var b strings.Builder
		for _, outcome := range row {
			switch outcome {
			case OutcomeCorrect:
				b.WriteString(shareCorrect)
			case OutcomePresent:
				b.WriteString(sharePresent)
			default:
				b.WriteString(shareAbsent)
			}
		}
		return b.String()
	})

	return header + strings.Join(rows, "\n") + "\n\nlexouli.gr"
}
