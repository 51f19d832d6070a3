package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/scriptlens/internal/mcputils"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

// referencesRequest is the argument schema of the script_references tool.
type referencesRequest struct {
	FilePath string   `json:"file_path"`
	Source   string   `json:"source"`
	Language string   `json:"language"`
	Roots    []string `json:"roots"`
}

func (r referencesRequest) target() scriptTarget {
	return scriptTarget{FilePath: r.FilePath, Source: r.Source, Language: r.Language}
}

// ReferencesResponse is the JSON body of a script_references result. Every
// requested root is a key; members are sorted.
type ReferencesResponse struct {
	File       string              `json:"file"`
	References map[string][]string `json:"references"`
}

// AddScriptReferencesTool registers the script_references tool with an MCP server.
// Calls that omit roots use defaultRoots.
func AddScriptReferencesTool(s *server.MCPServer, svc *workspace.Service, projectRoot string, defaultRoots []string) {
	tool := mcp.NewTool(
		"script_references",
		mcp.WithDescription("List the members a script accesses off well-known root objects, e.g. which Things, Items or Users it reads. Only statically determinable names are reported."),
		mcp.WithString("file_path",
			mcp.Description("Script path, absolute or relative to the project root")),
		mcp.WithString("source",
			mcp.Description("Inline script text. Use instead of file_path.")),
		mcp.WithString("language",
			mcp.Description("Language of inline source: javascript, typescript, jsx, tsx")),
		mcp.WithArray("roots",
			mcp.Description(fmt.Sprintf("Root object names to report (default: %s)", strings.Join(defaultRoots, ", ")))),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createScriptReferencesHandler(svc, projectRoot, defaultRoots))
}

// createScriptReferencesHandler creates the handler function for the script_references tool.
func createScriptReferencesHandler(svc *workspace.Service, projectRoot string, defaultRoots []string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := requireArgumentMap(request); res != nil {
			return res, nil
		}

		var req referencesRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		roots := req.Roots
		if len(roots) == 0 {
			roots = defaultRoots
		}
		if len(roots) == 0 {
			return mcp.NewToolResultError("roots must not be empty"), nil
		}

		target := req.target()
		uri, release, err := openTarget(svc.Workspace(), projectRoot, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer release()

		return marshalToolResponse(ReferencesResponse{
			File:       target.displayName(uri),
			References: svc.References(ctx, uri, roots).Lists(),
		})
	}
}
