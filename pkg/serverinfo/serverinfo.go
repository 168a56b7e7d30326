package serverinfo

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"

	"github.com/Code-Monger/StoryScribe/pkg/spellcheck"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StatusURI is the URI of the status resource
const StatusURI = "app://status"

// startTime is used to calculate uptime
var startTime = time.Now()

// StatusProvider reports the spell-check session state
type StatusProvider interface {
	Status() spellcheck.Status
}

// FormatStatus renders runtime and spell-check information as text
func FormatStatus(version string, spell spellcheck.Status) string {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var b strings.Builder
	b.WriteString("StoryScribe Backend Status:\n\n")
	fmt.Fprintf(&b, "version: %s\n", version)
	fmt.Fprintf(&b, "go_version: %s\n", runtime.Version())
	fmt.Fprintf(&b, "os: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "goroutines: %d\n", runtime.NumGoroutine())
	fmt.Fprintf(&b, "alloc_mb: %.1f\n", float64(memStats.Alloc)/1024/1024)
	fmt.Fprintf(&b, "uptime_seconds: %.0f\n", time.Since(startTime).Seconds())

	b.WriteString("\nSpell check:\n")
	if !spell.Initialized {
		b.WriteString("initialized: false\n")
		return b.String()
	}
	fmt.Fprintf(&b, "initialized: true\n")
	fmt.Fprintf(&b, "language: %s\n", spell.Language)
	fmt.Fprintf(&b, "affix_file: %s\n", spell.Dictionary.AffPath)
	fmt.Fprintf(&b, "dictionary_file: %s\n", spell.Dictionary.DicPath)
	fmt.Fprintf(&b, "custom_words: %d\n", spell.CustomWords)
	fmt.Fprintf(&b, "generation: %s\n", spell.Generation)
	fmt.Fprintf(&b, "initialized_at: %s\n", spell.InitializedAt.Format(time.RFC3339))
	return b.String()
}

// RegisterServerInfo registers the status resource with the MCP server
func RegisterServerInfo(mcpServer *server.MCPServer, version string, provider StatusProvider) {
	mcpServer.AddResource(
		mcp.NewResource(
			StatusURI,
			"Backend Status",
			mcp.WithMIMEType("text/plain"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "text/plain",
					Text:     FormatStatus(version, provider.Status()),
				},
			}, nil
		},
	)

	log.Printf("[Server] Registered status resource %s", StatusURI)
}
