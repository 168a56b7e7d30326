package spellcheck

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures a Session.
type Options struct {
	Locator         *Locator
	Store           *WordStore
	NewEngine       EngineFactory
	DefaultLanguage string
}

// Session is the process-wide spell-check state shared by all command
// handlers. A single lock guards the whole state so readers always observe
// one consistent initialization.
type Session struct {
	locator         *Locator
	store           *WordStore
	newEngine       EngineFactory
	defaultLanguage string

	// writeMu serializes writers of the custom dictionary file.
	writeMu sync.Mutex

	mu          sync.RWMutex
	engine      Engine
	customWords []string
	customSet   map[string]struct{}
	language    string
	dictionary  DictionaryPair
	generation  string
	initAt      time.Time
}

// NewSession creates an uninitialized session.
func NewSession(opts Options) *Session {
	if opts.Locator == nil {
		opts.Locator = NewLocator([]string{"."}, nil)
	}
	return &Session{
		locator:         opts.Locator,
		store:           opts.Store,
		newEngine:       opts.NewEngine,
		defaultLanguage: opts.DefaultLanguage,
		customSet:       make(map[string]struct{}),
	}
}

// Initialize locates the dictionary, merges the custom words and builds a
// new engine. The previous state is kept if any step fails.
func (s *Session) Initialize(req InitRequest) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	lang := LanguageFromAffix(req.AffPath, s.defaultLanguage)
	log.Printf("[Spell] Initializing language %s", lang)

	pair, err := s.locator.Locate(req.AffPath, req.DicPath, lang)
	if err != nil {
		return err
	}

	words := mergeWords(nil, req.CustomWords)
	if s.store != nil {
		words, err = s.store.Merge(req.CustomWords)
		if err != nil {
			return err
		}
	}

	if s.newEngine == nil {
		return fmt.Errorf("%w: no engine factory configured", ErrEngine)
	}
	engine, err := s.newEngine(lang, pair)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngine, err)
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	s.mu.Lock()
	s.engine = engine
	s.customWords = words
	s.customSet = set
	s.language = lang
	s.dictionary = pair
	s.generation = uuid.NewString()
	s.initAt = time.Now()
	s.mu.Unlock()

	log.Printf("[Spell] Initialized %s with %d custom words", lang, len(words))
	return nil
}

// CheckText returns the misspelled words of text in left-to-right order.
// Custom words are never reported.
func (s *Session) CheckText(text string) (spans []ErrorSpan, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.engine == nil {
		return nil, ErrNotInitialized
	}
	defer recoverEngine(&err)

	spans = []ErrorSpan{}
	for _, tok := range Tokenize(text) {
		if _, ok := s.customSet[tok.Word]; ok {
			continue
		}
		if s.engine.Check(tok.Word) {
			continue
		}
		if normalized := normalizeApostrophes(tok.Word); normalized != tok.Word && s.engine.Check(normalized) {
			continue
		}
		spans = append(spans, ErrorSpan{Word: tok.Word, Index: tok.Index, Length: tok.Length})
	}
	return spans, nil
}

// Suggestions returns the engine's corrections for word unchanged.
func (s *Session) Suggestions(word string) (suggestions []string, err error) {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	if engine == nil {
		return nil, ErrNotInitialized
	}
	defer recoverEngine(&err)

	suggestions = engine.Suggest(word)
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// AddCustomWord records word as correctly spelled, in memory and on disk.
// Adding a word that is already known is a no-op, and a word already in
// the file is not written again.
func (s *Session) AddCustomWord(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyWord
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	_, known := s.customSet[word]
	s.mu.RUnlock()
	if known {
		return nil
	}

	if s.store != nil {
		persisted, _, err := s.store.Load()
		if err != nil {
			return err
		}
		if !containsWord(persisted, word) {
			if err := s.store.Append(word); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	s.customWords = append(s.customWords, word)
	s.customSet[word] = struct{}{}
	s.mu.Unlock()

	log.Printf("[Spell] Added custom word %q", word)
	return nil
}

// ReloadCustomWords merges words persisted by another process into the
// in-memory list. Words already known keep their position.
func (s *Session) ReloadCustomWords(persisted []string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.customWords)
	s.customWords = mergeWords(s.customWords, persisted)
	for _, w := range s.customWords[before:] {
		s.customSet[w] = struct{}{}
	}
	if added := len(s.customWords) - before; added > 0 {
		log.Printf("[Spell] Reloaded %d custom words from disk", added)
	}
}

// CustomWords returns a copy of the custom word list in insertion order.
func (s *Session) CustomWords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]string, len(s.customWords))
	copy(words, s.customWords)
	return words
}

// Language returns the active language code, or "" before Initialize.
func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Initialized reports whether an engine is loaded.
func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine != nil
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Initialized:   s.engine != nil,
		Language:      s.language,
		Dictionary:    s.dictionary,
		CustomWords:   len(s.customWords),
		Generation:    s.generation,
		InitializedAt: s.initAt,
	}
}

// AvailableLanguages lists languages with installed dictionaries, or
// fallback when none are found.
func (s *Session) AvailableLanguages(fallback []string) []string {
	if langs := s.locator.Languages(); len(langs) > 0 {
		return langs
	}
	out := make([]string, len(fallback))
	copy(out, fallback)
	return out
}

// Store returns the custom word store, which may be nil.
func (s *Session) Store() *WordStore {
	return s.store
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}

func normalizeApostrophes(word string) string {
	return strings.ReplaceAll(word, "’", "'")
}

func recoverEngine(err *error) {
	if r := recover(); r != nil {
		log.Printf("[Spell] Engine panic: %v", r)
		*err = fmt.Errorf("%w: %v", ErrEngine, r)
	}
}
