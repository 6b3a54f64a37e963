// Package copilot holds the client-side logic of the career co-pilot: the
// profile conversation state machine and the document generator.
package copilot

import (
	"errors"
	"strings"
	"sync"

	"github.com/diogo/careerpilot/internal/models"
)

// State is a position in the profile conversation
type State int

const (
	// AwaitingFirstPrompt is the initial state; the opening request has not been sent
	AwaitingFirstPrompt State = iota
	// AwaitingUserInput means the user may submit a message
	AwaitingUserInput
	// AwaitingServerReply means exactly one chat request is outstanding
	AwaitingServerReply
	// ProfileComplete is terminal; the conversation is over for the session
	ProfileComplete
)

func (s State) String() string {
	switch s {
	case AwaitingFirstPrompt:
		return "awaiting-first-prompt"
	case AwaitingUserInput:
		return "awaiting-user-input"
	case AwaitingServerReply:
		return "awaiting-server-reply"
	case ProfileComplete:
		return "profile-complete"
	default:
		return "unknown"
	}
}

// Conversation errors
var (
	ErrAlreadyStarted   = errors.New("conversation already started")
	ErrNotStarted       = errors.New("conversation not started")
	ErrEmptyInput       = errors.New("message is empty")
	ErrRequestPending   = errors.New("waiting for the co-pilot to reply")
	ErrProfileComplete  = errors.New("profile is already complete")
	ErrNoPendingRequest = errors.New("no chat request is pending")
)

// Controller is the profile conversation state machine. It owns the
// transcript and the completion flag and performs no IO: callers send the
// transcript it hands out and feed the outcome back through Receive or Fail.
// A Controller is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	state      State
	transcript []models.ChatMessage
}

// NewController returns a controller in AwaitingFirstPrompt
func NewController() *Controller {
	return &Controller{state: AwaitingFirstPrompt}
}

// Start fires the opening turn. It returns the (empty) transcript to send
// and moves to AwaitingServerReply. It succeeds exactly once.
func (c *Controller) Start() ([]models.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != AwaitingFirstPrompt {
		return nil, ErrAlreadyStarted
	}
	c.state = AwaitingServerReply
	return c.snapshot(), nil
}

// Submit appends the trimmed user text and returns the full transcript to
// send. Nothing changes when it returns an error.
func (c *Controller) Submit(text string) ([]models.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case AwaitingFirstPrompt:
		return nil, ErrNotStarted
	case AwaitingServerReply:
		return nil, ErrRequestPending
	case ProfileComplete:
		return nil, ErrProfileComplete
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	c.transcript = append(c.transcript, models.UserMessage(text))
	c.state = AwaitingServerReply
	return c.snapshot(), nil
}

// Receive applies a server reply to the pending request. Text, when
// present, is appended as a bot message. A complete reply ends the
// conversation permanently.
func (c *Controller) Receive(reply models.ChatReply) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != AwaitingServerReply {
		return ErrNoPendingRequest
	}

	if reply.HasText {
		c.transcript = append(c.transcript, models.BotMessage(reply.Text))
	}

	if reply.Complete {
		c.state = ProfileComplete
	} else {
		c.state = AwaitingUserInput
	}
	return nil
}

// Fail resolves the pending request as failed: a synthetic bot message
// describing err is appended and the user may resubmit.
func (c *Controller) Fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != AwaitingServerReply {
		return ErrNoPendingRequest
	}

	c.transcript = append(c.transcript, models.BotMessage(FailureMessage(err)))
	c.state = AwaitingUserInput
	return nil
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns a copy of the messages so far
func (c *Controller) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// LastBotMessage returns the most recent bot message, if any
func (c *Controller) LastBotMessage() (models.ChatMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.transcript) - 1; i >= 0; i-- {
		if c.transcript[i].Sender == models.SenderBot {
			return c.transcript[i], true
		}
	}
	return models.ChatMessage{}, false
}

// Complete reports whether the server has declared the profile complete
func (c *Controller) Complete() bool {
	return c.State() == ProfileComplete
}

// Pending reports whether a chat request is outstanding
func (c *Controller) Pending() bool {
	return c.State() == AwaitingServerReply
}

// CanSubmit reports whether user input is currently accepted
func (c *Controller) CanSubmit() bool {
	return c.State() == AwaitingUserInput
}

func (c *Controller) snapshot() []models.ChatMessage {
	out := make([]models.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}
