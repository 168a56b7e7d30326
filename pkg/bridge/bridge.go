// Package bridge holds the argument and result helpers shared by the
// command handlers exposed to the front end.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handler is the signature of every command handler.
type Handler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// StringArg extracts a required string argument.
func StringArg(request mcp.CallToolRequest, name string) (string, error) {
	value, ok := request.Params.Arguments[name].(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return value, nil
}

// OptionalStringArg extracts a string argument, returning "" when absent.
func OptionalStringArg(request mcp.CallToolRequest, name string) (string, error) {
	raw, present := request.Params.Arguments[name]
	if !present || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return value, nil
}

// StringSliceArg extracts an optional array of strings.
func StringSliceArg(request mcp.CallToolRequest, name string) ([]string, error) {
	raw, present := request.Params.Arguments[name]
	if !present || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be an array of strings", name)
			}
			values = append(values, s)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", name)
	}
}

// TextResult wraps plain text in a tool result.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// JSONResult encodes v as the text content of a tool result.
func JSONResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %v", err)
	}
	return TextResult(string(data)), nil
}

// DecodeResult decodes the JSON text content of a tool result into v.
func DecodeResult(result *mcp.CallToolResult, v interface{}) error {
	if result == nil || len(result.Content) == 0 {
		return fmt.Errorf("empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return fmt.Errorf("unexpected content type %T", result.Content[0])
	}
	return json.Unmarshal([]byte(text.Text), v)
}
