package api

import "github.com/diogo/careerpilot/internal/models"

// CopilotClientInterface is the surface the conversation, generator and
// TUI layers depend on, so they can be tested without a server.
type CopilotClientInterface interface {
	// Chat sends the transcript and returns the validated reply
	Chat(history []models.ChatMessage) (models.ChatReply, error)
	// GenerateDocument returns the generated text for kind
	GenerateDocument(kind models.DocumentKind, jobDescription string) (string, error)
	// RenderPDF asks the server to typeset text and returns the PDF bytes
	RenderPDF(text string) ([]byte, error)
	Health() error
	BaseURL() string
	Close()
}

var _ CopilotClientInterface = (*CopilotClient)(nil)
