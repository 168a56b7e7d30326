package spellcheck

import (
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sajari/fuzzy"
)

// newFuzzyModel creates a suggestion model trained with every word form of
// an expanded dictionary, lowercased.
func newFuzzyModel(dict map[string]struct{}, depth int) *fuzzy.Model {
	model := fuzzy.NewModel()

	// Set the model parameters
	model.SetDepth(depth) // Maximum edit distance
	model.SetThreshold(1) // Minimum frequency threshold
	model.SetUseAutocomplete(false)

	words := lowercaseForms(dict)
	for _, word := range words {
		model.TrainWord(word)
	}

	log.Printf("[Spell] Trained fuzzy model with %d word forms", len(words))
	return model
}

// lowercaseForms folds the case variants of a dictionary into one sorted
// list of distinct lowercase words. Forms that are not valid UTF-8 are
// dropped.
func lowercaseForms(dict map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(dict))
	words := make([]string, 0, len(dict))
	for word := range dict {
		if !utf8.ValidString(word) || strings.ContainsRune(word, utf8.RuneError) {
			continue
		}
		lower := strings.ToLower(word)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		words = append(words, lower)
	}
	sort.Strings(words)
	return words
}
