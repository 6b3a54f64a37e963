package models

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is one of the known senders
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// ChatMessage is a single entry of the profile conversation transcript
type ChatMessage struct {
	Sender Sender `json:"sender" validate:"required,oneof=user bot"`
	Text   string `json:"text"`
}

// UserMessage builds a message authored by the user
func UserMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderUser, Text: text}
}

// BotMessage builds a message authored by the assistant
func BotMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderBot, Text: text}
}

// ChatRequest is the body of a chat call. ChatHistory is never nil so
// the opening turn serializes as an empty array.
type ChatRequest struct {
	ChatHistory []ChatMessage `json:"chat_history" validate:"dive"`
}

// NewChatRequest copies history into a request body
func NewChatRequest(history []ChatMessage) ChatRequest {
	h := make([]ChatMessage, len(history))
	copy(h, history)
	return ChatRequest{ChatHistory: h}
}
