package spellcheck

import (
	"errors"
	"time"
)

var (
	// ErrNotInitialized is returned when checking or suggesting before a
	// successful Initialize.
	ErrNotInitialized = errors.New("spell checker not initialized")

	// ErrDictionaryNotFound is returned when no affix/dictionary pair exists
	// in any candidate location.
	ErrDictionaryNotFound = errors.New("dictionary files not found")

	// ErrEngine wraps a failure raised inside the spell engine.
	ErrEngine = errors.New("spell engine failure")

	// ErrEmptyWord is returned when a custom word is blank.
	ErrEmptyWord = errors.New("word must not be empty")
)

// ErrorSpan describes one misspelled token. Index and Length are measured
// in UTF-16 code units so the front end can slice its own strings with them.
type ErrorSpan struct {
	Word   string `json:"word"`
	Index  int    `json:"index"`
	Length int    `json:"length"`
}

// InitRequest carries the arguments of the init_spell_check command.
type InitRequest struct {
	AffPath     string   `json:"aff_path"`
	DicPath     string   `json:"dic_path"`
	CustomWords []string `json:"custom_words"`
}

// DictionaryPair is an affix file and its dictionary file.
type DictionaryPair struct {
	AffPath string `json:"aff_path"`
	DicPath string `json:"dic_path"`
}

// Status is a consistent snapshot of the session.
type Status struct {
	Initialized   bool           `json:"initialized"`
	Language      string         `json:"language"`
	Dictionary    DictionaryPair `json:"dictionary"`
	CustomWords   int            `json:"custom_words"`
	Generation    string         `json:"generation,omitempty"`
	InitializedAt time.Time      `json:"initialized_at,omitempty"`
}
