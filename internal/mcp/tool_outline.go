package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/mcputils"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

// OutlineResponse is the JSON body of a script_outline result.
type OutlineResponse struct {
	File    string                  `json:"file"`
	Outline []analysis.OutlineToken `json:"outline"`
}

// AddScriptOutlineTool registers the script_outline tool with an MCP server.
//
// The tool returns the flat, indented outline of classes, functions, accessors
// and method-bearing object literals in one script.
func AddScriptOutlineTool(s *server.MCPServer, svc *workspace.Service, projectRoot string) {
	tool := mcp.NewTool(
		"script_outline",
		mcp.WithDescription("Build a structural outline of a JavaScript or TypeScript script: classes, functions, methods, accessors and object literals that carry methods, in source order with nesting depth."),
		mcp.WithString("file_path",
			mcp.Description("Script path, absolute or relative to the project root (e.g., 'rules/lights.ts')")),
		mcp.WithString("source",
			mcp.Description("Inline script text. Use instead of file_path.")),
		mcp.WithString("language",
			mcp.Description("Language of inline source: javascript, typescript, jsx, tsx")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createScriptOutlineHandler(svc, projectRoot))
}

// createScriptOutlineHandler creates the handler function for the script_outline tool.
func createScriptOutlineHandler(svc *workspace.Service, projectRoot string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := requireArgumentMap(request); res != nil {
			return res, nil
		}

		var target scriptTarget
		if err := mcputils.CoerceBindArguments(request, &target); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		uri, release, err := openTarget(svc.Workspace(), projectRoot, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer release()

		return marshalToolResponse(OutlineResponse{
			File:    target.displayName(uri),
			Outline: svc.Outline(ctx, uri),
		})
	}
}
