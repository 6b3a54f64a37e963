package api

import (
	"sync"

	"github.com/diogo/careerpilot/internal/models"
)

// MockClient is a scripted CopilotClientInterface for tests of the layers
// above the transport. Chat replies are consumed in order; once exhausted
// the last one repeats.
type MockClient struct {
	mu sync.Mutex

	ChatReplies []models.ChatReply
	ChatErrs    []error
	DocumentVal string
	DocumentErr error
	PDFVal      []byte
	PDFErr      error
	HealthErr   error
	URL         string

	// Call recorders
	ChatHistories  [][]models.ChatMessage
	DocumentCalls  []models.DocumentKind
	LastJobDesc    string
	LastPDFText    string
	CloseCalled    bool
	chatCallCursor int
}

var _ CopilotClientInterface = (*MockClient)(nil)

func (m *MockClient) Chat(history []models.ChatMessage) (models.ChatReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]models.ChatMessage, len(history))
	copy(snapshot, history)
	m.ChatHistories = append(m.ChatHistories, snapshot)

	i := m.chatCallCursor
	m.chatCallCursor++

	if i < len(m.ChatErrs) && m.ChatErrs[i] != nil {
		return models.ChatReply{}, m.ChatErrs[i]
	}
	if len(m.ChatReplies) == 0 {
		return models.ChatReply{}, nil
	}
	if i >= len(m.ChatReplies) {
		i = len(m.ChatReplies) - 1
	}
	return m.ChatReplies[i], nil
}

func (m *MockClient) GenerateDocument(kind models.DocumentKind, jobDescription string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DocumentCalls = append(m.DocumentCalls, kind)
	m.LastJobDesc = jobDescription
	return m.DocumentVal, m.DocumentErr
}

func (m *MockClient) RenderPDF(text string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPDFText = text
	return m.PDFVal, m.PDFErr
}

func (m *MockClient) Health() error {
	return m.HealthErr
}

func (m *MockClient) BaseURL() string {
	if m.URL == "" {
		return models.DefaultBaseURL
	}
	return m.URL
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// ChatCalls returns how many chat requests were made
func (m *MockClient) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatHistories)
}

// DocumentCallCount returns how many generation requests were made
func (m *MockClient) DocumentCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.DocumentCalls)
}
