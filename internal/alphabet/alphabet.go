// Package alphabet defines the letter inventories the game plays with and the
// normalization applied to every word before comparison. All matching in the
// rest of the engine happens on canonical letters: uppercase, accent-free,
// with the Greek final sigma folded to the standard sigma.
package alphabet

import (
	"strings"
	"unicode"
)

// Language selects which alphabet a game is played in.
type Language string

const (
	Greek   Language = "el"
	English Language = "en"
)

// Alphabet is an ordered set of canonical letters plus the fold table that
// maps accented and variant forms onto them.
type Alphabet struct {
	Language Language
	Letters  []rune
	fold     map[rune]rune
	set      map[rune]struct{}
}

// greekFold maps every accented vowel form, dialytika variant and the final
// sigma to its canonical uppercase base letter. Both cases are listed so that
// lookup works before and after case conversion (U+0390 and U+03B0 have no
// single-rune uppercase).
var greekFold = map[rune]rune{
	'Ά': 'Α', 'ά': 'Α',
	'Έ': 'Ε', 'έ': 'Ε',
	'Ή': 'Η', 'ή': 'Η',
	'Ί': 'Ι', 'ί': 'Ι', 'Ϊ': 'Ι', 'ϊ': 'Ι', 'ΐ': 'Ι',
	'Ό': 'Ο', 'ό': 'Ο',
	'Ύ': 'Υ', 'ύ': 'Υ', 'Ϋ': 'Υ', 'ϋ': 'Υ', 'ΰ': 'Υ',
	'Ώ': 'Ω', 'ώ': 'Ω',
	'ς': 'Σ',
}

var greek = &Alphabet{
	Language: Greek,
	Letters: []rune{
		'Α', 'Β', 'Γ', 'Δ', 'Ε', 'Ζ', 'Η', 'Θ', 'Ι', 'Κ', 'Λ', 'Μ',
		'Ν', 'Ξ', 'Ο', 'Π', 'Ρ', 'Σ', 'Τ', 'Υ', 'Φ', 'Χ', 'Ψ', 'Ω',
	},
	fold: greekFold,
}

var english = &Alphabet{
	Language: English,
	Letters: []rune{
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	},
	fold: map[rune]rune{},
}

func init() {
	for _, a := range []*Alphabet{greek, english} {
		a.set = make(map[rune]struct{}, len(a.Letters))
		for _, r := range a.Letters {
			a.set[r] = struct{}{}
		}
	}
}

// ForLanguage returns the alphabet for a language. Unknown languages fall
// back to Greek, the game's primary locale.
func ForLanguage(lang Language) *Alphabet {
	if lang == English {
		return english
	}
	return greek
}

// Normalize converts text to canonical letters: each rune is uppercased and
// folded through the alphabet's accent table. The result contains only runes
// that are fixed points of Normalize, so applying it twice is a no-op.
func (a *Alphabet) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if folded, ok := a.fold[r]; ok {
			b.WriteRune(folded)
			continue
		}
		u := unicode.ToUpper(r)
		if folded, ok := a.fold[u]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(u)
	}
	return b.String()
}

// Contains reports whether r is one of the alphabet's canonical letters.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.set[r]
	return ok
}

// IsWord reports whether every rune of an already-normalized string is a
// canonical letter of this alphabet.
func (a *Alphabet) IsWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !a.Contains(r) {
			return false
		}
	}
	return true
}
