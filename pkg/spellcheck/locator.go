package spellcheck

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultLayouts are the fallback layouts tried under every search root,
// in priority order. "{lang}" is replaced by the language code.
var DefaultLayouts = []string{
	"{lang}",
	"dictionaries/{lang}",
	"resources/dictionaries/{lang}",
	"../dictionaries/{lang}",
}

// Locator finds affix/dictionary pairs across a list of search roots.
type Locator struct {
	Roots   []string
	Layouts []string

	// Supported filters the pairs Languages reports. Nil accepts all.
	Supported func(DictionaryPair) bool
}

// NewLocator creates a Locator. A nil layouts slice selects DefaultLayouts.
func NewLocator(roots, layouts []string) *Locator {
	if layouts == nil {
		layouts = DefaultLayouts
	}
	return &Locator{Roots: roots, Layouts: layouts}
}

// Candidates returns every pair Locate would try, in order.
func (l *Locator) Candidates(affPath, dicPath, lang string) []DictionaryPair {
	var candidates []DictionaryPair
	if affPath != "" && dicPath != "" {
		candidates = append(candidates, DictionaryPair{AffPath: affPath, DicPath: dicPath})
	}
	for _, root := range l.Roots {
		for _, layout := range l.Layouts {
			stem := filepath.Join(root, strings.ReplaceAll(layout, "{lang}", lang))
			candidates = append(candidates, DictionaryPair{
				AffPath: stem + ".aff",
				DicPath: stem + ".dic",
			})
		}
	}
	return candidates
}

// Locate returns the first candidate pair where both files exist.
func (l *Locator) Locate(affPath, dicPath, lang string) (DictionaryPair, error) {
	for _, pair := range l.Candidates(affPath, dicPath, lang) {
		if isRegularFile(pair.AffPath) && isRegularFile(pair.DicPath) {
			log.Printf("[Spell] Using dictionary %s / %s", pair.AffPath, pair.DicPath)
			return pair, nil
		}
	}
	return DictionaryPair{}, fmt.Errorf("%w for language %q (aff: %s, dic: %s)", ErrDictionaryNotFound, lang, affPath, dicPath)
}

// Languages scans every directory implied by the roots and layouts for
// affix files with a matching dictionary file.
func (l *Locator) Languages() []string {
	seen := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, root := range l.Roots {
		for _, layout := range l.Layouts {
			dir := filepath.Dir(filepath.Join(root, strings.ReplaceAll(layout, "{lang}", "x")))
			if dirs[dir] {
				continue
			}
			dirs[dir] = true

			matches, err := filepath.Glob(filepath.Join(dir, "*.aff"))
			if err != nil {
				continue
			}
			for _, aff := range matches {
				lang := strings.TrimSuffix(filepath.Base(aff), ".aff")
				pair := DictionaryPair{AffPath: aff, DicPath: strings.TrimSuffix(aff, ".aff") + ".dic"}
				if !isRegularFile(pair.DicPath) {
					continue
				}
				if l.Supported != nil && !l.Supported(pair) {
					log.Printf("[Spell] Skipping unsupported dictionary %s", aff)
					continue
				}
				seen[lang] = true
			}
		}
	}

	languages := make([]string, 0, len(seen))
	for lang := range seen {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
