// Package words owns the game dictionary: the ordered solution lists the
// daily selector indexes into, and the wider legal-guess sets used to accept
// or reject player input. Lists are embedded so every build ships the exact
// word inventory it was tested with.
//
// Ordering of a solution list is part of the daily puzzle contract: past
// dates map to indices into that list, so launched lists may only grow at
// the end, never be reordered or trimmed.
package words

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"

	"lexouli/internal/alphabet"
)

//go:embed data/words_el.json data/words_en.json
var wordData embed.FS

// Supported word lengths. A request outside this range is a caller error,
// reported as ErrUnsupportedLength rather than an empty result.
const (
	MinLength = 4
	MaxLength = 7
)

var (
	ErrUnsupportedLength = fmt.Errorf("words: word length outside %d-%d", MinLength, MaxLength)
	ErrUnknownLanguage   = fmt.Errorf("words: unknown language")
)

// wordFile mirrors the embedded JSON layout.
type wordFile struct {
	Language  alphabet.Language   `json:"language"`
	Solutions map[string][]string `json:"solutions"`
	Guesses   map[string][]string `json:"guesses"`
}

type languageTable struct {
	solutions map[int][]string
	guesses   map[int][]string
}

type legalKey struct {
	lang   alphabet.Language
	length int
}

// Dictionary is the lookup for legal solution and guess words, partitioned
// by language and word length. It is safe for concurrent use; legal-guess
// sets are built lazily per (language, length) and cached.
type Dictionary struct {
	tables map[alphabet.Language]*languageTable

	mu    sync.RWMutex
	legal map[legalKey]map[string]struct{}
}

// Load parses the embedded word lists into a Dictionary. Words that are not
// already canonical for their alphabet or whose length does not match their
// bucket are skipped with a warning rather than failing the whole load.
func Load() (*Dictionary, error) {
	d := &Dictionary{
		tables: make(map[alphabet.Language]*languageTable),
		legal:  make(map[legalKey]map[string]struct{}),
	}
	for _, name := range []string{"data/words_el.json", "data/words_en.json"} {
		raw, err := wordData.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("words: read %s: %w", name, err)
		}
		var wf wordFile
		if err := json.Unmarshal(raw, &wf); err != nil {
			return nil, fmt.Errorf("words: parse %s: %w", name, err)
		}
		alpha := alphabet.ForLanguage(wf.Language)
		d.tables[wf.Language] = &languageTable{
			solutions: parseBuckets(wf.Solutions, alpha, name),
			guesses:   parseBuckets(wf.Guesses, alpha, name),
		}
	}
	for lang, tbl := range d.tables {
		for length := MinLength; length <= MaxLength; length++ {
			if len(tbl.solutions[length]) == 0 {
				return nil, fmt.Errorf("words: no %d-letter solutions for language %q", length, lang)
			}
		}
	}
	return d, nil
}

// parseBuckets converts the JSON length→words map into int keys, dropping
// entries that fail canonical-form or length checks.
func parseBuckets(src map[string][]string, alpha *alphabet.Alphabet, file string) map[int][]string {
	out := make(map[int][]string, len(src))
	for key, list := range src {
		length, err := strconv.Atoi(key)
		if err != nil || length < MinLength || length > MaxLength {
			log.Printf("[WARN] %s: skipping word bucket %q", file, key)
			continue
		}
		out[length] = lo.Filter(list, func(w string, _ int) bool {
			if utf8.RuneCountInString(w) != length {
				log.Printf("[WARN] %s: skipping %q: not %d letters", file, w, length)
				return false
			}
			if alpha.Normalize(w) != w || !alpha.IsWord(w) {
				log.Printf("[WARN] %s: skipping %q: not canonical", file, w)
				return false
			}
			return true
		})
	}
	return out
}

// Solutions returns the ordered solution list for a length and language.
// The returned slice is shared and must not be mutated by callers.
func (d *Dictionary) Solutions(length int, lang alphabet.Language) ([]string, error) {
	if length < MinLength || length > MaxLength {
		return nil, ErrUnsupportedLength
	}
	tbl, ok := d.tables[lang]
	if !ok {
		return nil, ErrUnknownLanguage
	}
	return tbl.solutions[length], nil
}

// IsLegalGuess reports whether word (after normalization) is an acceptable
// guess for the given length and language. The legal set is the union of
// the solutions and the additional guess words for that length.
func (d *Dictionary) IsLegalGuess(word string, length int, lang alphabet.Language) bool {
	if length < MinLength || length > MaxLength {
		return false
	}
	tbl, ok := d.tables[lang]
	if !ok {
		return false
	}
	normalized := alphabet.ForLanguage(lang).Normalize(word)
	if utf8.RuneCountInString(normalized) != length {
		return false
	}
	set := d.legalSet(legalKey{lang: lang, length: length}, tbl)
	_, hit := set[normalized]
	return hit
}

// legalSet returns the cached legal-guess set for a key, building it on
// first use.
func (d *Dictionary) legalSet(key legalKey, tbl *languageTable) map[string]struct{} {
	d.mu.RLock()
	set, ok := d.legal[key]
	d.mu.RUnlock()
	if ok {
		return set
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok = d.legal[key]; ok {
		return set
	}
	set = make(map[string]struct{}, len(tbl.solutions[key.length])+len(tbl.guesses[key.length]))
	for _, w := range tbl.solutions[key.length] {
		set[w] = struct{}{}
	}
	for _, w := range tbl.guesses[key.length] {
		set[w] = struct{}{}
	}
	d.legal[key] = set
	return set
}

// Languages lists the languages the dictionary was loaded with, sorted for
// stable output.
func (d *Dictionary) Languages() []alphabet.Language {
	langs := lo.Keys(d.tables)
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Stats returns the solution count per supported length for a language, for
// the health endpoint.
func (d *Dictionary) Stats(lang alphabet.Language) map[int]int {
	tbl, ok := d.tables[lang]
	if !ok {
		return nil
	}
	out := make(map[int]int, MaxLength-MinLength+1)
	for length := MinLength; length <= MaxLength; length++ {
		out[length] = len(tbl.solutions[length])
	}
	return out
}
