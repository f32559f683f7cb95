// Package mcp provides the stdio MCP server exposing the marks of one scope
// to coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/bufmark/internal/buildinfo"
	"github.com/go-ports/bufmark/internal/listing"
	"github.com/go-ports/bufmark/internal/markstore"
	"github.com/go-ports/bufmark/internal/service"
)

const listDescription = `List the file marks of the current project. Each mark is a single character the user bound to a file in their editor; use them to find the files the user considers important right now.`

const setDescription = `Bind a single-character mark to a file in the current project. Overwrites an existing mark with the same character. The user jumps to marked files from their editor.`

// NewServer creates and registers all mark tools on a new MCP server.
// It is separate from Serve so that tests can obtain a configured server
// without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("bufmark", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for svc, blocking until stdin closes.
func Serve(_ context.Context, svc *service.Service) error {
	if err := svc.StartWatch(); err != nil {
		svc.Log.Warn().Err(err).Msg("watch disabled")
	}
	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires the mark tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("mark_list",
		mcp.WithDescription(listDescription),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("mark_get",
		mcp.WithDescription("Resolve a mark character to its file path."),
		mcp.WithString("char",
			mcp.Description("The mark character."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGet(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("mark_set",
		mcp.WithDescription(setDescription),
		mcp.WithString("char",
			mcp.Description("A single printable character."),
			mcp.Required(),
		),
		mcp.WithString("path",
			mcp.Description("File path; relative paths are resolved against the project directory."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSet(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("mark_delete",
		mcp.WithDescription("Remove a mark."),
		mcp.WithString("char",
			mcp.Description("The mark character."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("mark_clear",
		mcp.WithDescription("Remove every mark of the current project."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleClear(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleList(_ context.Context, svc *service.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	marks := svc.Store.List()
	out := make([]map[string]any, 0, len(marks))
	for _, m := range marks {
		out = append(out, markResult(svc, m))
	}
	return jsonResult(map[string]any{
		"cwd":   svc.Cwd,
		"total": len(out),
		"marks": out,
	})
}

func handleGet(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	char := req.GetString("char", "")
	if err := markstore.ValidateChar(char); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, ok := svc.Store.Get(char)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("mark '%s' is not set", char)), nil
	}
	return jsonResult(markResult(svc, markstore.Mark{Char: char, Path: path}))
}

func handleSet(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	char := req.GetString("char", "")
	path := req.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	path = absPath(svc.Cwd, path)

	previous, had := svc.Store.Get(char)
	if err := svc.Store.Set(char, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := markResult(svc, markstore.Mark{Char: char, Path: path})
	if had {
		res["replaced"] = previous
	}
	return jsonResult(res)
}

func handleDelete(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	char := req.GetString("char", "")
	if err := markstore.ValidateChar(char); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"char":    char,
		"deleted": svc.Store.Delete(char),
	})
}

func handleClear(_ context.Context, svc *service.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := svc.Store.Len()
	svc.Store.DeleteAll()
	return jsonResult(map[string]any{"deleted": n})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func markResult(svc *service.Service, m markstore.Mark) map[string]any {
	return map[string]any{
		"char":     m.Char,
		"path":     m.Path,
		"relative": listing.Display(m.Path, svc.Cwd),
	}
}

// absPath resolves p against cwd.
func absPath(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
