// Command audit checks word-list JSON files before they are embedded:
// every word must be canonical for its alphabet, match its length bucket,
// and appear only once. Exits non-zero if any problem is found.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/samber/lo"

	"lexouli/internal/alphabet"
)

type wordFile struct {
	Language  alphabet.Language   `json:"language"`
	Solutions map[string][]string `json:"solutions"`
	Guesses   map[string][]string `json:"guesses"`
}

func main() {
	flag.Parse()
	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{
			"internal/words/data/words_el.json",
			"internal/words/data/words_en.json",
		}
	}

	problems := 0
	for _, path := range paths {
		problems += auditFile(path)
	}
	if problems > 0 {
		log.Fatalf("audit failed: %d problem(s) found", problems)
	}
	fmt.Println("audit passed")
}

func auditFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("%s: %v", path, err)
		return 1
	}
	var wf wordFile
	if err := json.Unmarshal(data, &wf); err != nil {
		log.Printf("%s: parse error: %v", path, err)
		return 1
	}
	alpha := alphabet.ForLanguage(wf.Language)
	if alpha.Language != wf.Language {
		log.Printf("%s: unknown language %q", path, wf.Language)
		return 1
	}

	problems := 0
	solutions := make(map[int]map[string]struct{})
	problems += auditBuckets(path, "solutions", wf.Solutions, alpha, solutions)
	problems += auditBuckets(path, "guesses", wf.Guesses, alpha, nil)

	// A guess word that is also a solution is redundant.
	for key, list := range wf.Guesses {
		length, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		dupes := lo.Filter(list, func(w string, _ int) bool {
			_, ok := solutions[length][w]
			return ok
		})
		for _, w := range dupes {
			log.Printf("%s: guesses[%s]: %q is already a solution", path, key, w)
			problems++
		}
	}

	fmt.Printf("%s: %s, %d solution buckets, %d guess buckets\n",
		path, wf.Language, len(wf.Solutions), len(wf.Guesses))
	return problems
}

func auditBuckets(path, section string, buckets map[string][]string, alpha *alphabet.Alphabet, collect map[int]map[string]struct{}) int {
	problems := 0
	for key, list := range buckets {
		length, err := strconv.Atoi(key)
		if err != nil {
			log.Printf("%s: %s: bucket key %q is not a number", path, section, key)
			problems++
			continue
		}
		seen := make(map[string]struct{}, len(list))
		for _, w := range list {
			if utf8.RuneCountInString(w) != length {
				log.Printf("%s: %s[%s]: %q is not %d letters", path, section, key, w, length)
				problems++
			}
			if alpha.Normalize(w) != w {
				log.Printf("%s: %s[%s]: %q is not canonical (want %q)", path, section, key, w, alpha.Normalize(w))
				problems++
			} else if !alpha.IsWord(w) {
				log.Printf("%s: %s[%s]: %q contains letters outside the %s alphabet", path, section, key, w, alpha.Language)
				problems++
			}
			if _, dup := seen[w]; dup {
				log.Printf("%s: %s[%s]: duplicate entry %q", path, section, key, w)
				problems++
			}
			seen[w] = struct{}{}
		}
		if collect != nil {
			collect[length] = seen
		}
	}
	return problems
}
