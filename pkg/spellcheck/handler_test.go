package spellcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/Code-Monger/StoryScribe/pkg/bridge"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func newTestHandlers(t *testing.T, engine *fakeEngine) (*Handlers, *sessionFixture) {
	t.Helper()
	f := newSessionFixture(t, engine)
	return &Handlers{Session: f.session, FallbackLanguages: []string{"en_US"}}, f
}

func TestHandlersFlow(t *testing.T) {
	engine := newFakeEngine("is", "a")
	engine.suggestions["tset"] = []string{"test", "set"}
	h, f := newTestHandlers(t, engine)
	ctx := context.Background()

	_, err := h.HandleCheckText(ctx, callRequest("check_text", map[string]interface{}{"text": "tset"}))
	assert.True(t, errors.Is(err, ErrNotInitialized))

	result, err := h.HandleInit(ctx, callRequest("init_spell_check", map[string]interface{}{
		"aff_path":     "dictionaries/en_US.aff",
		"dic_path":     "dictionaries/en_US.dic",
		"custom_words": []interface{}{"Eldoria"},
	}))
	require.NoError(t, err)
	assert.Contains(t, result.Content[0].(mcp.TextContent).Text, "en_US")
	assert.Equal(t, []string{"Eldoria"}, f.session.CustomWords())

	result, err = h.HandleCheckText(ctx, callRequest("check_text", map[string]interface{}{"text": "Thsi is a tset in Eldoria"}))
	require.NoError(t, err)
	var spans []ErrorSpan
	require.NoError(t, bridge.DecodeResult(result, &spans))
	assert.Equal(t, []ErrorSpan{
		{Word: "Thsi", Index: 0, Length: 4},
		{Word: "tset", Index: 10, Length: 4},
		{Word: "in", Index: 15, Length: 2},
	}, spans)

	result, err = h.HandleSuggestions(ctx, callRequest("get_suggestions", map[string]interface{}{"word": "tset"}))
	require.NoError(t, err)
	var suggestions []string
	require.NoError(t, bridge.DecodeResult(result, &suggestions))
	assert.Equal(t, []string{"test", "set"}, suggestions)

	_, err = h.HandleAddWord(ctx, callRequest("add_custom_word", map[string]interface{}{"word": "Thsi"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Eldoria", "Thsi"}, readLines(t, f.store.Path()))

	result, err = h.HandleLanguages(ctx, callRequest("get_available_languages", nil))
	require.NoError(t, err)
	var languages []string
	require.NoError(t, bridge.DecodeResult(result, &languages))
	assert.Equal(t, []string{"en_US"}, languages)
}

func TestHandlersEmptyCheckResultIsArray(t *testing.T) {
	h, _ := newTestHandlers(t, newFakeEngine("fine"))
	ctx := context.Background()
	_, err := h.HandleInit(ctx, callRequest("init_spell_check", map[string]interface{}{}))
	require.NoError(t, err)

	result, err := h.HandleCheckText(ctx, callRequest("check_text", map[string]interface{}{"text": "fine"}))
	require.NoError(t, err)
	assert.Equal(t, "[]", result.Content[0].(mcp.TextContent).Text)
}

func TestHandlersArgumentErrors(t *testing.T) {
	h, _ := newTestHandlers(t, newFakeEngine())
	ctx := context.Background()

	_, err := h.HandleCheckText(ctx, callRequest("check_text", map[string]interface{}{}))
	assert.EqualError(t, err, "text must be a string")

	_, err = h.HandleSuggestions(ctx, callRequest("get_suggestions", map[string]interface{}{"word": 3.0}))
	assert.EqualError(t, err, "word must be a string")

	_, err = h.HandleInit(ctx, callRequest("init_spell_check", map[string]interface{}{"custom_words": "Eldoria"}))
	assert.EqualError(t, err, "custom_words must be an array of strings")

	_, err = h.HandleAddWord(ctx, callRequest("add_custom_word", map[string]interface{}{"word": ""}))
	assert.True(t, errors.Is(err, ErrEmptyWord))
}
