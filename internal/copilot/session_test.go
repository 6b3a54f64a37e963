package copilot

import (
	"errors"
	"testing"

	"github.com/diogo/careerpilot/internal/api"
	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

func TestSession_OpeningRequestIsEmpty(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{models.ReplyWithText("What's your name?", false)}}
	s := NewSession(mock)

	added, err := s.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if mock.ChatCalls() != 1 {
		t.Fatalf("ChatCalls() = %d, want 1", mock.ChatCalls())
	}
	if len(mock.ChatHistories[0]) != 0 {
		t.Errorf("opening history = %v, want empty", mock.ChatHistories[0])
	}
	if len(added) != 1 || added[0] != models.BotMessage("What's your name?") {
		t.Errorf("added = %v", added)
	}

	if _, err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start error = %v", err)
	}
	if mock.ChatCalls() != 1 {
		t.Error("second Start must not send a request")
	}
}

func TestSession_ConversationToCompletion(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{
		models.ReplyWithText("What's your name?", false),
		{Text: "Thanks John. What is your professional title?", HasText: true, Profile: &models.Profile{FullName: "John Doe"}},
		models.ReplyWithText("Got it!", true),
	}}

	var profiles []models.Profile
	s := NewSession(mock)
	s.OnProfile = func(p models.Profile) { profiles = append(profiles, p) }

	_, _ = s.Start()
	if _, err := s.Send("John Doe"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	sent := mock.ChatHistories[1]
	if len(sent) != 2 || sent[0] != models.BotMessage("What's your name?") || sent[1] != models.UserMessage("John Doe") {
		t.Errorf("second request history = %v", sent)
	}

	added, err := s.Send("Engineer")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(added) != 1 || added[0].Text != "Got it!" {
		t.Errorf("added = %v", added)
	}
	if !s.Complete() {
		t.Error("session should be complete")
	}
	if len(profiles) != 1 || profiles[0].FullName != "John Doe" {
		t.Errorf("profile updates = %v", profiles)
	}
	if len(s.Transcript()) != 5 {
		t.Errorf("transcript length = %d, want 5", len(s.Transcript()))
	}

	if _, err := s.Send("anything"); !errors.Is(err, ErrProfileComplete) {
		t.Errorf("Send after completion error = %v", err)
	}
	if mock.ChatCalls() != 3 {
		t.Errorf("ChatCalls() = %d, want 3", mock.ChatCalls())
	}
}

func TestSession_FailureBecomesMessage(t *testing.T) {
	mock := &api.MockClient{
		ChatReplies: []models.ChatReply{models.ReplyWithText("Name?", false)},
		ChatErrs:    []error{nil, apierrors.NewNetworkError(errors.New("refused"))},
	}
	s := NewSession(mock)
	_, _ = s.Start()

	added, err := s.Send("Jane")
	if err != nil {
		t.Fatalf("Send returned %v, failures belong in the transcript", err)
	}
	if len(added) != 1 || added[0] != models.BotMessage(MsgConnectFailed) {
		t.Errorf("added = %v", added)
	}

	// Manual retry sends the whole transcript again, including the failure message.
	if _, err := s.Send("Jane"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := len(mock.ChatHistories[2]); got != 4 {
		t.Errorf("retry history length = %d, want 4", got)
	}
}

func TestSession_EmptyInputSendsNothing(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{models.ReplyWithText("Name?", false)}}
	s := NewSession(mock)
	_, _ = s.Start()

	if _, err := s.Send("   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Send error = %v", err)
	}
	if mock.ChatCalls() != 1 {
		t.Errorf("ChatCalls() = %d, want 1", mock.ChatCalls())
	}
}
