package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pulseboard/pulseboard/internal/storage"
	"github.com/pulseboard/pulseboard/internal/summary"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store      *storage.Store
	Summarizer Summarizer // optional; if nil, summarize_source returns an error
	Events     *Hub       // optional; mutations via MCP publish change events too
}

// NewMCPServer creates an MCP server exposing the dashboard operations as
// tools, for automation tools that speak MCP instead of the webhook.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"pulseboard",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("pulseboard — notification and todo dashboard over incoming automation events."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ingest_event",
			mcp.WithDescription("Store a notification or todo event, exactly as the webhook would."),
			mcp.WithString("source", mcp.Description("Origin system label, e.g. Email, GitHub, Slack"), mcp.Required()),
			mcp.WithBoolean("is_todo", mcp.Description("Whether this event is a task rather than a plain notification"), mcp.Required()),
			mcp.WithString("todo_text", mcp.Description("Task text; required when is_todo is true")),
			mcp.WithString("notification", mcp.Description("Informational message body")),
			mcp.WithString("status", mcp.Description("Initial todo status (new, in_progress, completed); defaults to new")),
			mcp.WithString("due_date", mcp.Description("Due date-time for a todo")),
		),
		mcpIngestEvent(deps),
	)

	s.AddTool(
		mcp.NewTool("list_records",
			mcp.WithDescription("List stored records newest-first, optionally filtered by source and todo flag."),
			mcp.WithString("source", mcp.Description("Exact source filter")),
			mcp.WithBoolean("is_todo", mcp.Description("Filter by todo flag")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
		),
		mcpListRecords(deps),
	)

	s.AddTool(
		mcp.NewTool("get_stats",
			mcp.WithDescription("Return total, todo, notification, and per-source record counts."),
		),
		mcpGetStats(deps),
	)

	s.AddTool(
		mcp.NewTool("summarize_source",
			mcp.WithDescription("Summarize all stored messages from one source in 2-3 sentences."),
			mcp.WithString("source", mcp.Description("Source whose messages to summarize"), mcp.Required()),
		),
		mcpSummarizeSource(deps),
	)

	return s
}

func mcpIngestEvent(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := req.RequireString("source")
		if err != nil || source == "" {
			return mcpError("source is required"), nil
		}
		isTodo, err := req.RequireBool("is_todo")
		if err != nil {
			return mcpError("is_todo is required"), nil
		}

		todoText := req.GetString("todo_text", "")
		if isTodo && todoText == "" {
			return mcpError("todo_text is required when is_todo is true"), nil
		}

		var notification, dueDate *string
		if v := req.GetString("notification", ""); v != "" {
			notification = &v
		}
		if v := req.GetString("due_date", ""); v != "" {
			dueDate = &v
		}

		rec := NewRecord(source, isTodo, todoText, req.GetString("status", ""), notification, dueDate)
		if err := deps.Store.InsertRecord(rec); err != nil {
			return mcpError(fmt.Sprintf("failed to save record: %v", err)), nil
		}

		if deps.Events != nil {
			deps.Events.Publish(Event{Type: EventInsert, Record: &rec})
		}

		return mcpText(fmt.Sprintf("Stored record %s", rec.ID)), nil
	}
}

func mcpListRecords(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}

		filter := storage.ListFilter{
			Source: req.GetString("source", ""),
			Limit:  limit,
			Offset: -1,
		}
		if args := req.GetArguments(); args != nil {
			if _, ok := args["is_todo"]; ok {
				v := req.GetBool("is_todo", false)
				filter.IsTodo = &v
			}
		}

		records, err := deps.Store.ListRecords(filter)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list records: %v", err)), nil
		}

		b, err := json.Marshal(records)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal records: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetStats(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var stats storage.Stats
		var err error

		if stats.Total, err = deps.Store.CountRecords(); err != nil {
			return mcpError(fmt.Sprintf("failed to count records: %v", err)), nil
		}
		if stats.Todos, err = deps.Store.CountByTodo(true); err != nil {
			return mcpError(fmt.Sprintf("failed to count todos: %v", err)), nil
		}
		if stats.Notifications, err = deps.Store.CountByTodo(false); err != nil {
			return mcpError(fmt.Sprintf("failed to count notifications: %v", err)), nil
		}
		if stats.BySource, err = deps.Store.CountBySource(); err != nil {
			return mcpError(fmt.Sprintf("failed to count by source: %v", err)), nil
		}

		b, err := json.Marshal(stats)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSummarizeSource(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Summarizer == nil {
			return mcpError("summarization not available: no upstream configured"), nil
		}

		source, err := req.RequireString("source")
		if err != nil || source == "" {
			return mcpError("source is required"), nil
		}

		records, err := deps.Store.ListRecords(storage.ListFilter{Source: source, Limit: -1, Offset: -1})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list records: %v", err)), nil
		}
		if len(records) == 0 {
			return mcpError(fmt.Sprintf("no records for source %q", source)), nil
		}

		msgs := make([]summary.Message, len(records))
		for i, rec := range records {
			msgs[i] = summary.Message{
				Notification: rec.Notification,
				TodoText:     rec.TodoText,
				CreatedAt:    rec.CreatedAt,
			}
		}

		text, err := deps.Summarizer.Summarize(ctx, source, msgs)
		if err != nil {
			return mcpError(fmt.Sprintf("summarization failed: %v", err)), nil
		}
		return mcpText(text), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
