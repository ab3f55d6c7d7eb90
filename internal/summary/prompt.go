package summary

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrNoContent is returned when the message list yields no text to summarize.
var ErrNoContent = errors.New("no message content to summarize")

// Message is a single message-bearing item submitted for summarization.
// Either Notification or TodoText carries the display text.
type Message struct {
	Notification *string   `json:"notification"`
	TodoText     *string   `json:"todo_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// text returns the display text of the message, preferring the notification
// body over the todo text.
func (m Message) text() string {
	if m.Notification != nil && *m.Notification != "" {
		return *m.Notification
	}
	if m.TodoText != nil && *m.TodoText != "" {
		return *m.TodoText
	}
	return ""
}

// BuildPrompt assembles the summarization prompt for a source's messages.
// Items with no extractable text are dropped, the rest are re-sorted by
// creation time ascending (caller order is not trusted) and concatenated.
// Returns ErrNoContent when nothing survives.
func BuildPrompt(source string, msgs []Message) (string, error) {
	kept := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.text() != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return "", ErrNoContent
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CreatedAt.Before(kept[j].CreatedAt)
	})

	texts := make([]string, len(kept))
	for i, m := range kept {
		texts[i] = m.text()
	}
	body := strings.Join(texts, "\n\n")
	if strings.TrimSpace(body) == "" {
		return "", ErrNoContent
	}

	return "Summarize these " + source + " messages concisely in 2-3 sentences. " +
		"The messages are listed in chronological order (oldest to newest):\n\n" + body, nil
}
