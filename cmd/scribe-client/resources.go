package main

import (
	"context"
	"log"

	"github.com/Code-Monger/StoryScribe/pkg/serverinfo"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReadStatus reads the backend status resource
func ReadStatus(ctx context.Context, c client.MCPClient) error {
	readReq := mcp.ReadResourceRequest{}
	readReq.Params.URI = serverinfo.StatusURI

	result, err := c.ReadResource(ctx, readReq)
	if err != nil {
		log.Printf("Failed to read status: %v", err)
		return err
	}

	if len(result.Contents) > 0 {
		if textContent, ok := result.Contents[0].(mcp.TextResourceContents); ok {
			log.Printf("Status:\n%s", textContent.Text)
		}
	}

	return nil
}
