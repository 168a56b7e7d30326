package tools

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Code-Monger/StoryScribe/pkg/startup"
	"github.com/mark3labs/mcp-go/client"
)

// TestFiles writes a file through the backend and reads it back
func TestFiles(ctx context.Context, c client.MCPClient) error {
	testDir, err := os.MkdirTemp("", "scribe_test_files")
	if err != nil {
		return fmt.Errorf("failed to create test directory: %v", err)
	}
	defer os.RemoveAll(testDir)

	path := filepath.Join(testDir, "chapter1.md")
	content := "# Chapter 1\n\nIt was a dark and stormy night. 🌩\n"

	if _, text, err := callTool(ctx, c, "write_file", map[string]interface{}{
		"path":    path,
		"content": content,
	}); err != nil {
		return err
	} else {
		log.Printf("write_file result: %s", text)
	}

	_, text, err := callTool(ctx, c, "read_file", map[string]interface{}{"path": path})
	if err != nil {
		return err
	}
	if text != content {
		return fmt.Errorf("read_file returned %q, want %q", text, content)
	}

	if _, _, err := callTool(ctx, c, "read_file", map[string]interface{}{"path": "relative.md"}); err == nil {
		return fmt.Errorf("read_file accepted a relative path")
	}
	log.Println("Relative path rejected as expected")
	return nil
}

// TestStartupFile fetches the startup file twice; the second call must be empty
func TestStartupFile(ctx context.Context, c client.MCPClient) error {
	var first *startup.File
	if err := callJSON(ctx, c, "get_startup_file", map[string]interface{}{}, &first); err != nil {
		return err
	}
	if first != nil {
		log.Printf("Startup file: %s (%d bytes)", first.Path, len(first.Content))
	} else {
		log.Println("No startup file")
	}

	var second *startup.File
	if err := callJSON(ctx, c, "get_startup_file", map[string]interface{}{}, &second); err != nil {
		return err
	}
	if second != nil {
		return fmt.Errorf("startup file returned twice")
	}
	return nil
}
