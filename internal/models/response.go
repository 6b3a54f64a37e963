package models

// ChatReply is the validated form of a chat response. The wire format has
// optional fields; absence is recorded here instead of being probed later.
type ChatReply struct {
	// Text is the assistant's reply, meaningful only when HasText is set
	Text    string
	HasText bool
	// Complete mirrors profile_complete; absent means false
	Complete bool
	// Profile carries updated_profile when the server sent one
	Profile *Profile
}

// ReplyWithText is a convenience constructor for a reply carrying text
func ReplyWithText(text string, complete bool) ChatReply {
	return ChatReply{Text: text, HasText: text != "", Complete: complete}
}

// ChatResponse is the wire body returned by the chat endpoint
type ChatResponse struct {
	Response        string   `json:"response,omitempty"`
	UpdatedProfile  *Profile `json:"updated_profile,omitempty"`
	ProfileComplete bool     `json:"profile_complete"`
}

// JobRequest is the body of a document generation call
type JobRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
}

// DocumentResponse is the body returned by the generation endpoints
type DocumentResponse struct {
	Content string `json:"content"`
}

// PDFRequest is the body of a PDF rendering call
type PDFRequest struct {
	Text string `json:"text" validate:"required"`
}
