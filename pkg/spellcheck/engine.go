package spellcheck

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/client9/gospell"
	"github.com/sajari/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Engine is a spelling checker for a single language.
type Engine interface {
	Check(word string) bool
	Suggest(word string) []string
}

// EngineFactory builds an Engine for a language from a dictionary pair.
type EngineFactory func(lang string, pair DictionaryPair) (Engine, error)

// EngineOptions tunes the suggestion model of a HunspellEngine. Zero
// values select the defaults.
type EngineOptions struct {
	MaxSuggestions int // default 10
	FuzzyDepth     int // default 2
}

// HunspellFactory returns an EngineFactory producing HunspellEngines.
func HunspellFactory(opts EngineOptions) EngineFactory {
	return func(lang string, pair DictionaryPair) (Engine, error) {
		return NewHunspellEngine(lang, pair, opts)
	}
}

// HunspellEngine checks words against a Hunspell affix/dictionary pair and
// suggests corrections from a fuzzy model trained on the dictionary.
type HunspellEngine struct {
	speller *gospell.GoSpell
	opts    EngineOptions
	tag     language.Tag

	once  sync.Once
	model *fuzzy.Model
}

// NewHunspellEngine loads the dictionary pair. The suggestion model is
// trained on first use.
func NewHunspellEngine(lang string, pair DictionaryPair, opts EngineOptions) (*HunspellEngine, error) {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 10
	}
	if opts.FuzzyDepth <= 0 {
		opts.FuzzyDepth = 2
	}

	speller, err := gospell.NewGoSpell(pair.AffPath, pair.DicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", pair.DicPath, err)
	}

	tag := language.Make(strings.ReplaceAll(lang, "_", "-"))
	return &HunspellEngine{
		speller: speller,
		opts:    opts,
		tag:     tag,
	}, nil
}

// Check reports whether word is spelled correctly. A Title-case word is
// also accepted in lowercase, and an UPPER-case word in lowercase or Title
// case. Mixed-case words must match the dictionary exactly.
func (e *HunspellEngine) Check(word string) bool {
	word = e.speller.InputConversion([]byte(word))
	if e.known(word) {
		return true
	}
	if hasDigit(word) {
		// Numbers, units and ordinals.
		return e.speller.Spell(word)
	}

	switch gospell.CaseStyle(word) {
	case gospell.Title:
		return e.known(cases.Lower(e.tag).String(word))
	case gospell.AllUpper:
		lower := cases.Lower(e.tag).String(word)
		return e.known(lower) || e.known(cases.Title(e.tag).String(lower))
	default:
		return false
	}
}

func (e *HunspellEngine) known(word string) bool {
	_, ok := e.speller.Dict[word]
	return ok
}

func hasDigit(word string) bool {
	for _, r := range word {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Suggest returns corrections for word, most likely first, in the
// capitalization style of word.
func (e *HunspellEngine) Suggest(word string) []string {
	e.once.Do(func() {
		e.model = newFuzzyModel(e.speller.Dict, e.opts.FuzzyDepth)
	})

	candidates := e.model.SpellCheckSuggestions(strings.ToLower(word), e.opts.MaxSuggestions)

	// Casers are stateful; build them per call.
	var caser *cases.Caser
	switch caseStyleOf(word) {
	case caseUpper:
		c := cases.Upper(e.tag)
		caser = &c
	case caseTitle:
		c := cases.Title(e.tag, cases.NoLower)
		caser = &c
	}

	suggestions := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if caser != nil {
			c = caser.String(c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		suggestions = append(suggestions, c)
	}
	return suggestions
}

type caseStyle int

const (
	caseLower caseStyle = iota
	caseTitle
	caseUpper
)

func caseStyleOf(word string) caseStyle {
	letters, uppers := 0, 0
	first := true
	firstUpper := false
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			uppers++
			if first {
				firstUpper = true
			}
		}
		first = false
	}
	switch {
	case letters > 1 && uppers == letters:
		return caseUpper
	case firstUpper:
		return caseTitle
	default:
		return caseLower
	}
}

// SupportedPair reports whether the affix file can be loaded by
// HunspellEngine. Affix files with a FLAG stanza (long or numeric flags)
// are not supported.
func SupportedPair(pair DictionaryPair) bool {
	file, err := os.Open(pair.AffPath)
	if err != nil {
		return false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 && fields[0] == "FLAG" {
			return false
		}
	}
	return scanner.Err() == nil
}
