package spellcheck

import (
	"context"
	"log"

	"github.com/Code-Monger/StoryScribe/pkg/bridge"
	"github.com/Code-Monger/StoryScribe/pkg/stats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Handlers exposes a Session as front-end commands.
type Handlers struct {
	Session           *Session
	FallbackLanguages []string
}

// HandleInit is the handler function for the init_spell_check command
func (h *Handlers) HandleInit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	affPath, err := bridge.OptionalStringArg(request, "aff_path")
	if err != nil {
		return nil, err
	}
	dicPath, err := bridge.OptionalStringArg(request, "dic_path")
	if err != nil {
		return nil, err
	}
	customWords, err := bridge.StringSliceArg(request, "custom_words")
	if err != nil {
		return nil, err
	}

	if err := h.Session.Initialize(InitRequest{
		AffPath:     affPath,
		DicPath:     dicPath,
		CustomWords: customWords,
	}); err != nil {
		log.Printf("[Spell] Initialization failed: %v", err)
		return nil, err
	}

	return bridge.TextResult("Spell checker initialized for " + h.Session.Language()), nil
}

// HandleCheckText is the handler function for the check_text command
func (h *Handlers) HandleCheckText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := bridge.StringArg(request, "text")
	if err != nil {
		return nil, err
	}

	spans, err := h.Session.CheckText(text)
	if err != nil {
		return nil, err
	}
	return bridge.JSONResult(spans)
}

// HandleSuggestions is the handler function for the get_suggestions command
func (h *Handlers) HandleSuggestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := bridge.StringArg(request, "word")
	if err != nil {
		return nil, err
	}

	suggestions, err := h.Session.Suggestions(word)
	if err != nil {
		return nil, err
	}
	return bridge.JSONResult(suggestions)
}

// HandleAddWord is the handler function for the add_custom_word command
func (h *Handlers) HandleAddWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := bridge.StringArg(request, "word")
	if err != nil {
		return nil, err
	}

	if err := h.Session.AddCustomWord(word); err != nil {
		return nil, err
	}
	return bridge.TextResult("Added " + word), nil
}

// HandleLanguages is the handler function for the get_available_languages command
func (h *Handlers) HandleLanguages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return bridge.JSONResult(h.Session.AvailableLanguages(h.FallbackLanguages))
}

// RegisterSpellCheck registers the spell-check commands with the MCP server
func RegisterSpellCheck(mcpServer *server.MCPServer, h *Handlers) {
	initTool := mcp.NewTool("init_spell_check",
		mcp.WithDescription("Loads the dictionary for a language and merges the user's custom words. The language is the affix file's base name."),
		mcp.WithString("aff_path",
			mcp.Description("Path of the affix file, e.g. dictionaries/en_US.aff"),
		),
		mcp.WithString("dic_path",
			mcp.Description("Path of the dictionary file, e.g. dictionaries/en_US.dic"),
		),
		mcp.WithArray("custom_words",
			mcp.Description("Words to treat as correctly spelled, merged into the persisted custom dictionary"),
		),
	)
	mcpServer.AddTool(initTool, stats.WrapHandler("init_spell_check", h.HandleInit))

	checkTool := mcp.NewTool("check_text",
		mcp.WithDescription("Returns the misspelled words of a text with UTF-16 offsets and lengths, in order"),
		mcp.WithString("text",
			mcp.Description("The text to check"),
			mcp.Required(),
		),
	)
	mcpServer.AddTool(checkTool, stats.WrapHandler("check_text", h.HandleCheckText))

	suggestTool := mcp.NewTool("get_suggestions",
		mcp.WithDescription("Returns replacement candidates for a word, most likely first"),
		mcp.WithString("word",
			mcp.Description("The word to correct"),
			mcp.Required(),
		),
	)
	mcpServer.AddTool(suggestTool, stats.WrapHandler("get_suggestions", h.HandleSuggestions))

	addTool := mcp.NewTool("add_custom_word",
		mcp.WithDescription("Adds a word to the custom dictionary so it is never reported as misspelled"),
		mcp.WithString("word",
			mcp.Description("The word to add"),
			mcp.Required(),
		),
	)
	mcpServer.AddTool(addTool, stats.WrapHandler("add_custom_word", h.HandleAddWord))

	languagesTool := mcp.NewTool("get_available_languages",
		mcp.WithDescription("Lists the language codes with installed dictionaries"),
	)
	mcpServer.AddTool(languagesTool, stats.WrapHandler("get_available_languages", h.HandleLanguages))

	log.Printf("[Spell] Registered spell-check commands")
}
