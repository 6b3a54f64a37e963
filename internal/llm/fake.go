package llm

import (
	"context"
	"sync"
)

// FakeClient is a scripted Client for tests of packages built on top of llm
type FakeClient struct {
	mu sync.Mutex

	// Replies are returned in order; the last one repeats.
	Replies []string
	Err     error

	Prompts  []string
	JSONCall []bool
	Closed   bool
}

// NewFakeClient returns a FakeClient that answers with replies in order
func NewFakeClient(replies ...string) *FakeClient {
	return &FakeClient{Replies: replies}
}

func (f *FakeClient) next(prompt string, asJSON bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Prompts = append(f.Prompts, prompt)
	f.JSONCall = append(f.JSONCall, asJSON)
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Replies) == 0 {
		return "", nil
	}
	reply := f.Replies[0]
	if len(f.Replies) > 1 {
		f.Replies = f.Replies[1:]
	}
	return reply, nil
}

// GenerateContent records prompt and returns the next reply
func (f *FakeClient) GenerateContent(_ context.Context, prompt string) (string, error) {
	return f.next(prompt, false)
}

// GenerateJSON records prompt and returns the next reply with fences removed
func (f *FakeClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	reply, err := f.next(prompt, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(reply), nil
}

// Model implements Client
func (f *FakeClient) Model() string { return "fake" }

// Close implements Client
func (f *FakeClient) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Calls returns the number of prompts seen so far
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}

// LastPrompt returns the most recent prompt, or "" when none was sent
func (f *FakeClient) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return ""
	}
	return f.Prompts[len(f.Prompts)-1]
}

var _ Client = (*FakeClient)(nil)
