package tools

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Code-Monger/StoryScribe/pkg/spellcheck"
	"github.com/mark3labs/mcp-go/client"
)

const testAffix = "SET UTF-8\n"

const testDictionary = `8
this
is
a
test
story
dragon
castle
writer
`

// TestSpellCheck initializes the spell checker with a small dictionary and
// exercises every spell-check command
func TestSpellCheck(ctx context.Context, c client.MCPClient) error {
	testDir, err := os.MkdirTemp("", "scribe_test_spellcheck")
	if err != nil {
		return fmt.Errorf("failed to create test directory: %v", err)
	}
	defer func() {
		os.RemoveAll(testDir)
		log.Println("Test directory removed")
	}()

	affPath := filepath.Join(testDir, "xx_TEST.aff")
	dicPath := filepath.Join(testDir, "xx_TEST.dic")
	if err := os.WriteFile(affPath, []byte(testAffix), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(dicPath, []byte(testDictionary), 0644); err != nil {
		return err
	}

	if _, text, err := callTool(ctx, c, "init_spell_check", map[string]interface{}{
		"aff_path":     affPath,
		"dic_path":     dicPath,
		"custom_words": []interface{}{"Eldoria"},
	}); err != nil {
		return err
	} else {
		log.Printf("init_spell_check result: %s", text)
	}

	var spans []spellcheck.ErrorSpan
	if err := callJSON(ctx, c, "check_text", map[string]interface{}{
		"text": "Thsi is a tset of the dragn in Eldoria",
	}, &spans); err != nil {
		return err
	}
	for _, span := range spans {
		log.Printf("  misspelled %q at %d (length %d)", span.Word, span.Index, span.Length)
	}

	var suggestions []string
	if err := callJSON(ctx, c, "get_suggestions", map[string]interface{}{"word": "dragn"}, &suggestions); err != nil {
		return err
	}

	if _, _, err := callTool(ctx, c, "add_custom_word", map[string]interface{}{"word": "dragn"}); err != nil {
		return err
	}
	if err := callJSON(ctx, c, "check_text", map[string]interface{}{"text": "the dragn"}, &spans); err != nil {
		return err
	}
	for _, span := range spans {
		if span.Word == "dragn" {
			return fmt.Errorf("custom word %q still reported", span.Word)
		}
	}

	var languages []string
	return callJSON(ctx, c, "get_available_languages", map[string]interface{}{}, &languages)
}
