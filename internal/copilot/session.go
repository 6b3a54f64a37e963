package copilot

import (
	"sync"

	"github.com/diogo/careerpilot/internal/api"
	"github.com/diogo/careerpilot/internal/models"
)

// Session drives a Controller against the chat endpoint synchronously.
// Each call performs at most one request; failures are folded into the
// transcript, so the returned error only reports misuse.
type Session struct {
	client api.CopilotClientInterface
	ctrl   *Controller
	// sendMu serializes round trips so a Session shared between goroutines
	// still has at most one request in flight.
	sendMu sync.Mutex
	// OnProfile, when set, receives profile updates carried by replies
	OnProfile func(models.Profile)
}

// NewSession creates a session over client with a fresh controller
func NewSession(client api.CopilotClientInterface) *Session {
	return &Session{client: client, ctrl: NewController()}
}

// Controller exposes the underlying state machine
func (s *Session) Controller() *Controller {
	return s.ctrl
}

// Start sends the opening request and returns the messages it produced
func (s *Session) Start() ([]models.ChatMessage, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	history, err := s.ctrl.Start()
	if err != nil {
		return nil, err
	}
	return s.roundTrip(history, 0), nil
}

// Send submits text and returns the messages appended by the reply
func (s *Session) Send(text string) ([]models.ChatMessage, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	history, err := s.ctrl.Submit(text)
	if err != nil {
		return nil, err
	}
	return s.roundTrip(history, len(history)), nil
}

// Complete reports whether the profile conversation is over
func (s *Session) Complete() bool {
	return s.ctrl.Complete()
}

// Transcript returns a copy of the transcript
func (s *Session) Transcript() []models.ChatMessage {
	return s.ctrl.Transcript()
}

func (s *Session) roundTrip(history []models.ChatMessage, before int) []models.ChatMessage {
	reply, err := s.client.Chat(history)
	if err != nil {
		_ = s.ctrl.Fail(err)
	} else {
		_ = s.ctrl.Receive(reply)
		if reply.Profile != nil && s.OnProfile != nil {
			s.OnProfile(*reply.Profile)
		}
	}

	transcript := s.ctrl.Transcript()
	return transcript[before:]
}
