// Package startup detects a document passed on the command line so the
// front end can open it on launch.
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Code-Monger/StoryScribe/pkg/bridge"
	"github.com/Code-Monger/StoryScribe/pkg/stats"
	"github.com/h2non/filetype"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// File is a text file given at launch.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Resolve returns the first argument after the program name that does not
// start with a dash and names a readable text file, or nil.
func Resolve(args []string) *File {
	if len(args) < 2 {
		return nil
	}
	for _, arg := range args[1:] {
		if arg == "" || strings.HasPrefix(arg, "-") {
			continue
		}
		content, err := readText(arg)
		if err != nil {
			log.Printf("[Startup] Ignoring argument %q: %v", arg, err)
			continue
		}
		log.Printf("[Startup] Startup file: %s", arg)
		return &File{Path: arg, Content: content}
	}
	return nil
}

func readText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		return "", fmt.Errorf("binary file of type %s", kind.MIME.Value)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8 text")
	}
	return string(data), nil
}

// Cache holds the startup file until the front end takes it.
type Cache struct {
	mu   sync.Mutex
	file *File
}

// NewCache creates a cache holding file, which may be nil.
func NewCache(file *File) *Cache {
	return &Cache{file: file}
}

// Take returns the cached file and clears the cache. It returns nil when
// there was no startup file or it was already taken.
func (c *Cache) Take() *File {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := c.file
	c.file = nil
	return file
}

// HandleGetStartupFile is the handler function for the get_startup_file command
func (c *Cache) HandleGetStartupFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return bridge.JSONResult(c.Take())
}

// RegisterStartup registers the get_startup_file command with the MCP server
func RegisterStartup(mcpServer *server.MCPServer, cache *Cache) {
	tool := mcp.NewTool("get_startup_file",
		mcp.WithDescription("Returns the file passed on the command line as {path, content}, or null. The file is returned only once."),
	)
	mcpServer.AddTool(tool, stats.WrapHandler("get_startup_file", cache.HandleGetStartupFile))

	log.Printf("[Startup] Registered get_startup_file command")
}
