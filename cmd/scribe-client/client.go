package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Code-Monger/StoryScribe/cmd/scribe-client/tools"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Client drives the backend's commands over SSE
type Client struct {
	serverURL string
	mcpClient client.MCPClient
}

// NewClient creates a new client
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
	}
}

// Run connects, lists the commands and runs the named scenario
func (c *Client) Run(ctx context.Context, scenario string) error {
	log.Printf("Connecting to backend at %s...", c.serverURL)
	sseClient, err := client.NewSSEMCPClient(c.serverURL)
	if err != nil {
		return fmt.Errorf("failed to create SSE client: %v", err)
	}
	defer sseClient.Close()

	if err := sseClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start SSE client: %v", err)
	}
	c.mcpClient = sseClient

	if err := c.initialize(ctx); err != nil {
		return err
	}

	toolsResult, err := c.listTools(ctx)
	if err != nil {
		return err
	}

	if err := c.runScenario(ctx, scenario, toolsResult); err != nil {
		return err
	}

	return ReadStatus(ctx, c.mcpClient)
}

func (c *Client) initialize(ctx context.Context) error {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "scribe-client",
		Version: "1.0.0",
	}

	initResult, err := c.mcpClient.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %v", err)
	}

	log.Printf("Connected to %s %s", initResult.ServerInfo.Name, initResult.ServerInfo.Version)
	return nil
}

func (c *Client) listTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	toolsResult, err := c.mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %v", err)
	}

	log.Printf("Available commands (%d):", len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		log.Printf("  - %s: %s", tool.Name, tool.Description)
	}
	return toolsResult, nil
}

func (c *Client) runScenario(ctx context.Context, scenario string, toolsResult *mcp.ListToolsResult) error {
	required := map[string]string{
		"spellcheck": "check_text",
		"files":      "read_file",
		"startup":    "get_startup_file",
		"stats":      "stats",
	}

	name, ok := required[scenario]
	if !ok {
		return fmt.Errorf("unknown scenario: %s", scenario)
	}

	found := false
	for _, tool := range toolsResult.Tools {
		if tool.Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%s command not found on backend", name)
	}

	log.Printf("Running %s scenario...", scenario)
	switch scenario {
	case "spellcheck":
		return tools.TestSpellCheck(ctx, c.mcpClient)
	case "files":
		return tools.TestFiles(ctx, c.mcpClient)
	case "startup":
		return tools.TestStartupFile(ctx, c.mcpClient)
	default:
		return tools.TestStats(ctx, c.mcpClient)
	}
}
