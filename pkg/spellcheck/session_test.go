package spellcheck

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine accepts a fixed set of words and returns canned suggestions.
type fakeEngine struct {
	known       map[string]bool
	suggestions map[string][]string
	panics      bool

	mu      sync.Mutex
	checked []string
}

func newFakeEngine(known ...string) *fakeEngine {
	e := &fakeEngine{known: make(map[string]bool), suggestions: make(map[string][]string)}
	for _, w := range known {
		e.known[w] = true
	}
	return e
}

func (e *fakeEngine) Check(word string) bool {
	if e.panics {
		panic("dictionary corrupted")
	}
	e.mu.Lock()
	e.checked = append(e.checked, word)
	e.mu.Unlock()
	return e.known[word]
}

func (e *fakeEngine) Suggest(word string) []string {
	if e.panics {
		panic("dictionary corrupted")
	}
	return e.suggestions[word]
}

type sessionFixture struct {
	dir     string
	pair    DictionaryPair
	store   *WordStore
	engine  *fakeEngine
	session *Session
	langs   []string
}

func newSessionFixture(t *testing.T, engine *fakeEngine) *sessionFixture {
	t.Helper()
	f := &sessionFixture{dir: t.TempDir(), engine: engine}
	f.pair = writePair(t, filepath.Join(f.dir, "dictionaries", "en_US"))
	f.store = NewWordStore(filepath.Join(f.dir, "config", CustomDictionaryFile))
	f.session = NewSession(Options{
		Locator: NewLocator([]string{f.dir}, nil),
		Store:   f.store,
		NewEngine: func(lang string, pair DictionaryPair) (Engine, error) {
			f.langs = append(f.langs, lang)
			return engine, nil
		},
	})
	return f
}

func (f *sessionFixture) init(t *testing.T, customWords ...string) {
	t.Helper()
	require.NoError(t, f.session.Initialize(InitRequest{
		AffPath:     "dictionaries/en_US.aff",
		DicPath:     "dictionaries/en_US.dic",
		CustomWords: customWords,
	}))
}

func TestSessionNotInitialized(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())

	_, err := f.session.CheckText("hello")
	assert.True(t, errors.Is(err, ErrNotInitialized))

	_, err = f.session.Suggestions("hello")
	assert.True(t, errors.Is(err, ErrNotInitialized))

	assert.False(t, f.session.Initialized())
	assert.False(t, f.session.Status().Initialized)
	assert.Equal(t, "", f.session.Language())
}

func TestSessionInitialize(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	f.init(t, "Eldoria")

	assert.True(t, f.session.Initialized())
	assert.Equal(t, "en_US", f.session.Language())
	assert.Equal(t, []string{"en_US"}, f.langs)
	assert.Equal(t, []string{"Eldoria"}, f.session.CustomWords())

	status := f.session.Status()
	assert.Equal(t, f.pair, status.Dictionary)
	assert.Equal(t, 1, status.CustomWords)
	assert.NotEmpty(t, status.Generation)
	assert.False(t, status.InitializedAt.IsZero())
}

func TestSessionInitializeMergesPersistedWords(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	require.NoError(t, os.MkdirAll(filepath.Dir(f.store.Path()), 0755))
	require.NoError(t, os.WriteFile(f.store.Path(), []byte("griffin\nmoonstone\n"), 0644))

	f.init(t, "moonstone", "Eldoria", "griffin", "Eldoria")

	want := []string{"griffin", "moonstone", "Eldoria"}
	assert.Equal(t, want, f.session.CustomWords())
	assert.Equal(t, want, readLines(t, f.store.Path()))
}

func TestSessionInitializeNotFoundKeepsState(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	f.init(t, "Eldoria")
	before := f.session.Status()

	err := f.session.Initialize(InitRequest{AffPath: "dictionaries/xx_XX.aff", DicPath: "dictionaries/xx_XX.dic"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDictionaryNotFound))
	assert.Equal(t, before, f.session.Status())
}

func TestSessionInitializeEngineFailure(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	f.session.newEngine = func(string, DictionaryPair) (Engine, error) {
		return nil, errors.New("bad affix file")
	}

	err := f.session.Initialize(InitRequest{AffPath: "en_US.aff"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngine))
	assert.Contains(t, err.Error(), "bad affix file")
	assert.False(t, f.session.Initialized())
}

func TestSessionReinitializeSwitchesLanguage(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	writePair(t, filepath.Join(f.dir, "dictionaries", "de_DE"))

	f.init(t)
	first := f.session.Status().Generation
	require.NoError(t, f.session.Initialize(InitRequest{AffPath: "dictionaries/de_DE.aff", DicPath: "dictionaries/de_DE.dic"}))

	assert.Equal(t, "de_DE", f.session.Language())
	assert.NotEqual(t, first, f.session.Status().Generation)
}

func TestSessionDefaultLanguage(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	writePair(t, filepath.Join(f.dir, "dictionaries", "fr_FR"))
	f.session.defaultLanguage = "fr_FR"

	require.NoError(t, f.session.Initialize(InitRequest{}))
	assert.Equal(t, "fr_FR", f.session.Language())
}

func TestSessionCheckTextReportsMisspellings(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine("is", "a"))
	f.init(t)

	spans, err := f.session.CheckText("Thsi is a tset")
	require.NoError(t, err)
	assert.Equal(t, []ErrorSpan{
		{Word: "Thsi", Index: 0, Length: 4},
		{Word: "tset", Index: 10, Length: 4},
	}, spans)
}

func TestSessionCheckTextUTF16Offsets(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine("café", "dragon"))
	f.init(t)

	spans, err := f.session.CheckText("café wrld")
	require.NoError(t, err)
	assert.Equal(t, []ErrorSpan{{Word: "wrld", Index: 5, Length: 4}}, spans)

	spans, err = f.session.CheckText("🐉 dragon wrld")
	require.NoError(t, err)
	// Bytes would give 12 and runes 9; UTF-16 gives 10.
	assert.Equal(t, []ErrorSpan{{Word: "wrld", Index: 10, Length: 4}}, spans)
}

func TestSessionCheckTextNoErrors(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine("fine"))
	f.init(t)

	spans, err := f.session.CheckText("fine, fine!")
	require.NoError(t, err)
	assert.NotNil(t, spans)
	assert.Empty(t, spans)
}

func TestSessionCustomWordsNeverReported(t *testing.T) {
	// The engine rejects everything, including real words.
	f := newSessionFixture(t, newFakeEngine())
	f.init(t, "Eldoria", "the", "griffin’s")

	spans, err := f.session.CheckText("the Eldoria griffin’s the")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.Empty(t, f.engine.checked, "custom words must not reach the engine")

	// Custom words match exactly, without case folding.
	spans, err = f.session.CheckText("eldoria")
	require.NoError(t, err)
	assert.Equal(t, []ErrorSpan{{Word: "eldoria", Index: 0, Length: 7}}, spans)
}

func TestSessionApostropheNormalization(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine("don't"))
	f.init(t)

	spans, err := f.session.CheckText("don’t don't")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.Equal(t, []string{"don’t", "don't", "don't"}, f.engine.checked)
}

func TestSessionEnginePanic(t *testing.T) {
	engine := newFakeEngine()
	f := newSessionFixture(t, engine)
	f.init(t)
	engine.panics = true

	_, err := f.session.CheckText("boom")
	assert.True(t, errors.Is(err, ErrEngine))

	_, err = f.session.Suggestions("boom")
	assert.True(t, errors.Is(err, ErrEngine))

	// The session stays usable after a failed call.
	engine.panics = false
	_, err = f.session.CheckText("ok")
	assert.NoError(t, err)
}

func TestSessionSuggestionsPassThrough(t *testing.T) {
	engine := newFakeEngine("dragon")
	engine.suggestions["dragn"] = []string{"dragon", "drag", "dragnet"}
	engine.suggestions["dragon"] = []string{"dragon", "dragons"}
	f := newSessionFixture(t, engine)
	f.init(t)

	got, err := f.session.Suggestions("dragn")
	require.NoError(t, err)
	assert.Equal(t, []string{"dragon", "drag", "dragnet"}, got)

	got, err = f.session.Suggestions("dragon")
	require.NoError(t, err)
	assert.Equal(t, engine.suggestions["dragon"], got)

	got, err = f.session.Suggestions("zzz")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSessionAddCustomWord(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	f.init(t, "Eldoria")

	require.NoError(t, f.session.AddCustomWord("griffin"))
	require.NoError(t, f.session.AddCustomWord(" griffin "))
	require.NoError(t, f.session.AddCustomWord("Eldoria"))

	assert.Equal(t, []string{"Eldoria", "griffin"}, f.session.CustomWords())
	assert.Equal(t, []string{"Eldoria", "griffin"}, readLines(t, f.store.Path()))

	spans, err := f.session.CheckText("griffin")
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestSessionAddCustomWordBeforeInitialize(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())

	require.NoError(t, f.session.AddCustomWord("moonstone"))
	assert.Equal(t, []string{"moonstone"}, f.session.CustomWords())

	f.init(t, "Eldoria")
	assert.Equal(t, []string{"moonstone", "Eldoria"}, f.session.CustomWords())
}

func TestSessionAddCustomWordAlreadyPersisted(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	require.NoError(t, os.MkdirAll(filepath.Dir(f.store.Path()), 0755))
	require.NoError(t, os.WriteFile(f.store.Path(), []byte("Eldoria\n"), 0644))

	require.NoError(t, f.session.AddCustomWord("Eldoria"))
	assert.Equal(t, []string{"Eldoria"}, f.session.CustomWords())

	data, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Eldoria"))

	f.init(t)
	assert.Equal(t, []string{"Eldoria"}, f.session.CustomWords())
}

func TestSessionAddCustomWordEmpty(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())

	err := f.session.AddCustomWord("   ")
	assert.True(t, errors.Is(err, ErrEmptyWord))
	_, statErr := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSessionAddCustomWordConcurrent(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	f.init(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, f.session.AddCustomWord([]string{"alpha", "beta", "gamma", "delta"}[i%4]))
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma", "delta"}, f.session.CustomWords())
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma", "delta"}, readLines(t, f.store.Path()))
}

func TestSessionReloadCustomWords(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	f.init(t, "alpha")

	f.session.ReloadCustomWords([]string{"alpha", "omega"})
	assert.Equal(t, []string{"alpha", "omega"}, f.session.CustomWords())

	spans, err := f.session.CheckText("omega")
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestSessionAvailableLanguages(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine())
	assert.Equal(t, []string{"en_US"}, f.session.AvailableLanguages([]string{"xx_XX"}))

	empty := NewSession(Options{Locator: NewLocator([]string{t.TempDir()}, nil)})
	assert.Equal(t, []string{"en_US", "de_DE"}, empty.AvailableLanguages([]string{"en_US", "de_DE"}))
}

func TestSessionWithoutStore(t *testing.T) {
	dir := t.TempDir()
	writePair(t, filepath.Join(dir, "en_US"))
	s := NewSession(Options{
		Locator:   NewLocator([]string{dir}, nil),
		NewEngine: func(string, DictionaryPair) (Engine, error) { return newFakeEngine(), nil },
	})

	require.NoError(t, s.Initialize(InitRequest{CustomWords: []string{"b", "a", "b"}}))
	require.NoError(t, s.AddCustomWord("c"))
	assert.Equal(t, []string{"b", "a", "c"}, s.CustomWords())
}

func TestSessionCheckLargeText(t *testing.T) {
	f := newSessionFixture(t, newFakeEngine("ok"))
	f.init(t)

	text := strings.Repeat("ok 🐉 bad ", 2000)
	spans, err := f.session.CheckText(text)
	require.NoError(t, err)
	require.Len(t, spans, 2000)
	for i, span := range spans {
		// Each repetition is 3 + 3 + 4 = 10 UTF-16 units; "bad" starts at 6.
		assert.Equal(t, i*10+6, span.Index)
	}
}
