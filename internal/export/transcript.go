package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/careerpilot/internal/models"
)

// Format is a transcript export format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// FormatForPath picks JSON for .json files and Markdown otherwise
func FormatForPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// TranscriptMarkdown renders the profile conversation as Markdown
func TranscriptMarkdown(messages []models.ChatMessage, complete bool, at time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Profile conversation\n\n")
	sb.WriteString("**Exported:** ")
	sb.WriteString(at.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n", len(messages)))
	if complete {
		sb.WriteString("**Profile:** complete\n")
	}
	sb.WriteString("\n---\n\n")

	for i, msg := range messages {
		role := "You"
		if msg.Sender == models.SenderBot {
			role = "Co-pilot"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// TranscriptJSON renders the conversation in the chat_history wire shape
// plus export metadata, so it can be replayed against the API.
func TranscriptJSON(messages []models.ChatMessage, complete bool, at time.Time) ([]byte, error) {
	type exportTranscript struct {
		ExportedAt      time.Time            `json:"exported_at"`
		ProfileComplete bool                 `json:"profile_complete"`
		ChatHistory     []models.ChatMessage `json:"chat_history"`
	}

	history := messages
	if history == nil {
		history = []models.ChatMessage{}
	}

	return json.MarshalIndent(exportTranscript{
		ExportedAt:      at,
		ProfileComplete: complete,
		ChatHistory:     history,
	}, "", "  ")
}

// SaveTranscript writes the conversation to path in the format its extension implies
func SaveTranscript(path string, messages []models.ChatMessage, complete bool) (string, error) {
	now := time.Now()

	var data []byte
	switch FormatForPath(path) {
	case FormatJSON:
		var err error
		data, err = TranscriptJSON(messages, complete, now)
		if err != nil {
			return "", fmt.Errorf("failed to encode transcript: %w", err)
		}
	default:
		data = []byte(TranscriptMarkdown(messages, complete, now))
	}

	return WriteFile(path, data)
}
