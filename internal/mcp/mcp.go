// Package mcp exposes the notes library to MCP clients over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/version"
)

// Serve runs the MCP server on stdin/stdout until the client disconnects.
func Serve() error {
	s := server.NewMCPServer("notedown", version.Version)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List all notes in the library with their IDs, titles, and paths."),
		),
		handleListNotes,
	)
	s.AddTool(
		mcp.NewTool("read_note",
			mcp.WithDescription("Read a note by ID, as markdown or as structured document JSON."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID."),
			),
			mcp.WithString("format",
				mcp.Description("Either markdown (default) or document for schema JSON."),
			),
		),
		handleReadNote,
	)
	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Search notes by title or body text."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The search term."),
			),
		),
		handleSearchNotes,
	)

	return server.ServeStdio(s)
}

// errorResult reports a tool failure to the client without failing the
// protocol call itself.
func errorResult(msg string) *mcp.CallToolResult {
	res := mcp.NewToolResultText(msg)
	res.IsError = true
	return res
}

type noteSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	UpdatedAt string `json:"updatedAt"`
}

func summarize(notes []note.Note) []noteSummary {
	out := make([]noteSummary, len(notes))
	for i, n := range notes {
		out[i] = noteSummary{
			ID:        n.ID,
			Title:     n.Title,
			Path:      n.Path,
			UpdatedAt: n.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return out
}

func handleListNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := note.List(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing notes: %v", err)), nil
	}
	payload, err := json.MarshalIndent(summarize(notes), "", "  ")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func handleReadNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := req.Params.Arguments["id"].(string)
	if !ok || id == "" {
		return errorResult("id is required"), nil
	}
	n, err := note.Get(ctx, id)
	if err != nil {
		return errorResult(fmt.Sprintf("reading note: %v", err)), nil
	}

	if format, _ := req.Params.Arguments["format"].(string); format == "document" {
		data, err := document.SchemaJSON(document.ParseMarkdown([]byte(n.Body)))
		if err != nil {
			return errorResult(fmt.Sprintf("converting note: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(n.Body), nil
}

func handleSearchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, ok := req.Params.Arguments["query"].(string)
	if !ok || query == "" {
		return errorResult("query is required"), nil
	}
	notes, err := note.Search(ctx, query)
	if err != nil {
		return errorResult(fmt.Sprintf("searching notes: %v", err)), nil
	}
	payload, err := json.MarshalIndent(summarize(notes), "", "  ")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
