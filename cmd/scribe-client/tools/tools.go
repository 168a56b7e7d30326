// Package tools provides end-to-end scenarios for the backend's commands
package tools

import (
	"context"
	"fmt"
	"log"

	"github.com/Code-Monger/StoryScribe/pkg/bridge"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// callTool calls a backend command and returns its first text content
func callTool(ctx context.Context, c client.MCPClient, name string, arguments map[string]interface{}) (*mcp.CallToolResult, string, error) {
	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = name
	callReq.Params.Arguments = arguments

	result, err := c.CallTool(ctx, callReq)
	if err != nil {
		return nil, "", fmt.Errorf("failed to call %s: %v", name, err)
	}
	if result.IsError {
		return result, "", fmt.Errorf("%s returned an error result", name)
	}

	text := ""
	if len(result.Content) > 0 {
		if textContent, ok := result.Content[0].(mcp.TextContent); ok {
			text = textContent.Text
		}
	}
	return result, text, nil
}

// callJSON calls a backend command and decodes its JSON result into v
func callJSON(ctx context.Context, c client.MCPClient, name string, arguments map[string]interface{}, v interface{}) error {
	result, text, err := callTool(ctx, c, name, arguments)
	if err != nil {
		return err
	}
	log.Printf("%s result: %s", name, text)
	return bridge.DecodeResult(result, v)
}

// TestStats prints the backend's command usage statistics
func TestStats(ctx context.Context, c client.MCPClient) error {
	_, text, err := callTool(ctx, c, "stats", map[string]interface{}{})
	if err != nil {
		return err
	}
	log.Printf("Stats result:\n%s", text)
	return nil
}
