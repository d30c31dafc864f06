//go:build conformance

package conformance

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	simpleTextResponse        = "This is a simple text response for testing."
	errorHandlingResponse     = "This tool intentionally returns an error for testing"
	staticTextResourceContent = "This is the content of the static text resource."
	staticTextResourceName    = "test_static_text"
	staticTextResourceURI     = "test://static-text"
)

// Register adds conformance-only MCP fixtures (tools and resources).
func Register(mcpServer *mcp.Server) {
	if mcpServer == nil {
		return
	}
	mcp.AddTool(mcpServer, simpleTextTool(), simpleTextHandler())
	mcp.AddTool(mcpServer, errorHandlingTool(), errorHandlingHandler())
	mcpServer.AddResource(staticTextResource(), staticTextResourceHandler())
}

// simpleTextTool defines the conformance tool schema for simple text output.
func simpleTextTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "test_simple_text",
		Description: "Conformance tool that returns a simple text response.",
	}
}

func simpleTextHandler() mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: simpleTextResponse},
			},
		}, nil, nil
	}
}

// errorHandlingTool defines the conformance tool schema for tool errors.
func errorHandlingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "test_error_handling",
		Description: "Conformance tool that always returns a tool error.",
	}
}

func errorHandlingHandler() mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return nil, nil, fmt.Errorf("%s", errorHandlingResponse)
	}
}

func staticTextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:     staticTextResourceName,
		URI:      staticTextResourceURI,
		MIMEType: "text/plain",
	}
}

func staticTextResourceHandler() mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      req.Params.URI,
					MIMEType: "text/plain",
					Text:     staticTextResourceContent,
				},
			},
		}, nil
	}
}
