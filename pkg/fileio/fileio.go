// Package fileio provides the front end's text file and process commands.
package fileio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Code-Monger/StoryScribe/pkg/bridge"
	"github.com/Code-Monger/StoryScribe/pkg/stats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ErrRelativePath is returned for paths that are not absolute.
var ErrRelativePath = errors.New("path must be absolute")

// ReadFile returns the text content of the file at an absolute path.
func ReadFile(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrRelativePath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteFile replaces the content of the file at an absolute path. The
// parent directory must exist.
func WriteFile(path, content string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrRelativePath, path)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// HandleReadFile is the handler function for the read_file command
func HandleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := bridge.StringArg(request, "path")
	if err != nil {
		return nil, err
	}

	content, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bridge.TextResult(content), nil
}

// HandleWriteFile is the handler function for the write_file command
func HandleWriteFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := bridge.StringArg(request, "path")
	if err != nil {
		return nil, err
	}
	content, err := bridge.StringArg(request, "content")
	if err != nil {
		return nil, err
	}

	if err := WriteFile(path, content); err != nil {
		return nil, err
	}
	log.Printf("[FileIO] Wrote %d bytes to %s", len(content), path)
	return bridge.TextResult(fmt.Sprintf("Wrote %d bytes to %s", len(content), path)), nil
}

// Exiter ends the process. It does not return.
type Exiter func(code int)

// HandleExit returns the handler for the exit_app command. The process
// ends immediately; deferred functions and shutdown hooks do not run.
func HandleExit(exit Exiter) bridge.Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Printf("[FileIO] Exit requested by front end")
		exit(0)
		return bridge.TextResult("exiting"), nil
	}
}

// RegisterFileIO registers the file and exit commands with the MCP server.
// A nil exit uses os.Exit.
func RegisterFileIO(mcpServer *server.MCPServer, exit Exiter) {
	if exit == nil {
		exit = os.Exit
	}

	readTool := mcp.NewTool("read_file",
		mcp.WithDescription("Reads a text file by absolute path"),
		mcp.WithString("path",
			mcp.Description("Absolute path of the file"),
			mcp.Required(),
		),
	)
	mcpServer.AddTool(readTool, stats.WrapHandler("read_file", HandleReadFile))

	writeTool := mcp.NewTool("write_file",
		mcp.WithDescription("Writes a text file by absolute path, replacing its content"),
		mcp.WithString("path",
			mcp.Description("Absolute path of the file"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("The new file content"),
			mcp.Required(),
		),
	)
	mcpServer.AddTool(writeTool, stats.WrapHandler("write_file", HandleWriteFile))

	exitTool := mcp.NewTool("exit_app",
		mcp.WithDescription("Terminates the backend process immediately"),
	)
	mcpServer.AddTool(exitTool, HandleExit(exit))

	log.Printf("[FileIO] Registered file commands")
}
