package stats

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/Code-Monger/StoryScribe/pkg/bridge"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	// Global stats manager instance
	globalStatsManager *StatsManager
)

// InitStatsManager initializes the global stats manager
func InitStatsManager(dataDir string) error {
	statsFilePath := filepath.Join(dataDir, "stats.json")
	manager, err := NewStatsManager(statsFilePath)
	if err != nil {
		return err
	}
	globalStatsManager = manager
	return nil
}

// GetStatsManager returns the global stats manager
func GetStatsManager() *StatsManager {
	return globalStatsManager
}

// HandleGetStats handles requests to get command usage statistics
func HandleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if globalStatsManager == nil {
		return nil, fmt.Errorf("stats manager not initialized")
	}

	statsText := FormatStats(globalStatsManager.GetSessionStats(), globalStatsManager.GetPersistentStats())
	return bridge.TextResult(statsText), nil
}

// WrapHandler wraps a command handler with stats tracking
func WrapHandler(name string, handler bridge.Handler) bridge.Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		result, err := handler(ctx, request)
		if err != nil {
			log.Printf("[Stats] Command '%s' failed: %v", name, err)
		}

		if globalStatsManager != nil {
			if recErr := globalStatsManager.RecordCommand(name, time.Since(startTime), err != nil); recErr != nil {
				// Log the error but don't fail the request
				log.Printf("[Stats] Failed to record command usage: %v", recErr)
			}
		}

		return result, err
	}
}

// RegisterStats registers the stats tool with the MCP server
func RegisterStats(mcpServer *server.MCPServer) {
	statsTool := mcp.NewTool("stats",
		mcp.WithDescription("Retrieves usage statistics for backend commands"),
	)
	mcpServer.AddTool(statsTool, WrapHandler("stats", HandleGetStats))

	log.Printf("[Stats] Registered stats tool")
}
