package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/storage"
	"github.com/pulseboard/pulseboard/internal/summary"
)

// --- ingest ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a notification or todo event",
	Long: `Ingest a notification or todo event, exactly as the webhook would.

Examples:
  pulseboard ingest --source GitHub --notification "alice says: merged PR #42"
  pulseboard ingest --source Email --todo --todo-text "Reply to Bob" --due-date 2026-09-05T12:00:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		isTodo, _ := cmd.Flags().GetBool("todo")
		todoText, _ := cmd.Flags().GetString("todo-text")
		notification, _ := cmd.Flags().GetString("notification")
		status, _ := cmd.Flags().GetString("status")
		dueDate, _ := cmd.Flags().GetString("due-date")

		if source == "" {
			return fmt.Errorf("--source is required")
		}
		if isTodo && todoText == "" {
			return fmt.Errorf("--todo-text is required with --todo")
		}

		req := map[string]any{
			"source":  source,
			"is_todo": isTodo,
		}
		if todoText != "" {
			req["todo_text"] = todoText
		}
		if notification != "" {
			req["notification"] = notification
		}
		if status != "" {
			req["status"] = status
		}
		if dueDate != "" {
			req["due_date"] = dueDate
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/webhook", req)
		if err != nil {
			return err
		}

		var created recordResponse
		if err := decodeJSON(resp, &created); err != nil {
			return err
		}

		printSuccess("Stored record %s", created.Data.ID)
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("source", "", "origin system label (required)")
	ingestCmd.Flags().Bool("todo", false, "mark the event as a todo")
	ingestCmd.Flags().String("todo-text", "", "task text (required with --todo)")
	ingestCmd.Flags().String("notification", "", "informational message body")
	ingestCmd.Flags().String("status", "", "initial todo status (new, in_progress, completed)")
	ingestCmd.Flags().String("due-date", "", "due date-time for a todo")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		todosOnly, _ := cmd.Flags().GetBool("todos")
		notificationsOnly, _ := cmd.Flags().GetBool("notifications")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		if todosOnly && notificationsOnly {
			return fmt.Errorf("--todos and --notifications are mutually exclusive")
		}

		params := url.Values{}
		if source != "" {
			params.Set("source", source)
		}
		if todosOnly {
			params.Set("is_todo", "true")
		}
		if notificationsOnly {
			params.Set("is_todo", "false")
		}
		if limit >= 0 {
			params.Set("limit", strconv.Itoa(limit))
		}
		if offset >= 0 {
			params.Set("offset", strconv.Itoa(offset))
		}

		path := "/api/notifications"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var list listResponse
		if err := decodeJSON(resp, &list); err != nil {
			return err
		}

		if list.Count == 0 {
			fmt.Println("no records")
			return nil
		}

		for _, rec := range list.Data {
			printRecord(rec)
		}
		fmt.Printf("%d record(s)\n", list.Count)
		return nil
	},
}

func printRecord(rec storage.Record) {
	kind := "note"
	text := ""
	if rec.Notification != nil {
		text = *rec.Notification
	}
	if rec.IsTodo {
		kind = "todo"
		if rec.TodoText != nil {
			text = *rec.TodoText
		}
		if rec.Status != nil {
			kind += "/" + *rec.Status
		}
	}
	fmt.Printf("%s  %-14s %-10s %s\n",
		rec.CreatedAt.Format("2006-01-02 15:04"),
		colorize(colorBold, rec.Source),
		kind,
		strings.ReplaceAll(text, "\n", " "),
	)
}

func init() {
	listCmd.Flags().String("source", "", "filter by exact source")
	listCmd.Flags().Bool("todos", false, "only todos")
	listCmd.Flags().Bool("notifications", false, "only plain notifications")
	listCmd.Flags().Int("limit", -1, "maximum number of records")
	listCmd.Flags().Int("offset", -1, "number of records to skip")
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/stats")
		if err != nil {
			return err
		}

		var stats statsResponse
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		printStatus("Total", "%d", stats.Data.Total)
		printStatus("Todos", "%d", stats.Data.Todos)
		printStatus("Notifications", "%d", stats.Data.Notifications)
		for source, n := range stats.Data.BySource {
			printStatus("  "+source, "%d", n)
		}
		return nil
	},
}

// --- summarize ---

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize all messages from one source",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			return fmt.Errorf("--source is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/notifications?source="+url.QueryEscape(source))
		if err != nil {
			return err
		}

		var list listResponse
		if err := decodeJSON(resp, &list); err != nil {
			return err
		}
		if list.Count == 0 {
			return fmt.Errorf("no records for source %q", source)
		}

		messages := make([]summary.Message, len(list.Data))
		for i, rec := range list.Data {
			messages[i] = summary.Message{
				Notification: rec.Notification,
				TodoText:     rec.TodoText,
				CreatedAt:    rec.CreatedAt,
			}
		}

		sumResp, err := client.post(cmd.Context(), "/api/summarize", map[string]any{
			"source":   source,
			"messages": messages,
		})
		if err != nil {
			return err
		}

		var result summarizeResponse
		if err := decodeJSON(sumResp, &result); err != nil {
			return err
		}

		fmt.Println(result.Summary)
		printStatus("Messages", "%d", result.MessageCount)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().String("source", "", "source whose messages to summarize (required)")
}
