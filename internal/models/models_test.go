package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewChatRequest_EmptyHistorySerializesAsArray(t *testing.T) {
	data, err := json.Marshal(NewChatRequest(nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if string(data) != `{"chat_history":[]}` {
		t.Errorf("got %s, want {\"chat_history\":[]}", data)
	}
}

func TestNewChatRequest_CopiesHistory(t *testing.T) {
	history := []ChatMessage{BotMessage("What's your name?")}
	req := NewChatRequest(history)

	history[0].Text = "mutated"
	if req.ChatHistory[0].Text != "What's your name?" {
		t.Error("request shares backing array with caller history")
	}
}

func TestChatMessage_JSON(t *testing.T) {
	data, _ := json.Marshal(UserMessage("John Doe"))
	if string(data) != `{"sender":"user","text":"John Doe"}` {
		t.Errorf("unexpected encoding: %s", data)
	}
}

func TestSender_Valid(t *testing.T) {
	tests := []struct {
		sender Sender
		want   bool
	}{
		{SenderUser, true},
		{SenderBot, true},
		{"assistant", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.sender.Valid(); got != tt.want {
			t.Errorf("Sender(%q).Valid() = %v, want %v", tt.sender, got, tt.want)
		}
	}
}

func TestDocumentKind(t *testing.T) {
	tests := []struct {
		kind     DocumentKind
		path     string
		label    string
		fallback string
	}{
		{KindCV, "/api/generate-cv", "CV", "An error occurred while generating the CV. Please check the logs."},
		{KindCoverLetter, "/api/generate-cover-letter", "Cover Letter", "An error occurred while generating the Cover Letter. Please check the logs."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Path(); got != tt.path {
				t.Errorf("Path() = %s, want %s", got, tt.path)
			}
			if got := tt.kind.Label(); got != tt.label {
				t.Errorf("Label() = %s, want %s", got, tt.label)
			}
			if got := tt.kind.FallbackText(); got != tt.fallback {
				t.Errorf("FallbackText() = %s, want %s", got, tt.fallback)
			}
		})
	}
}

func TestParseDocumentKind(t *testing.T) {
	tests := []struct {
		input   string
		want    DocumentKind
		wantErr bool
	}{
		{"cv", KindCV, false},
		{"resume", KindCV, false},
		{"cover-letter", KindCoverLetter, false},
		{"letter", KindCoverLetter, false},
		{"memo", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDocumentKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDocumentKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDocumentKind(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestProfile_MissingAndComplete(t *testing.T) {
	p := Profile{FullName: "Jane Doe", Skills: "  "}

	missing := p.Missing()
	want := []string{"professionalTitle", "skills", "lastRole", "education"}
	if strings.Join(missing, ",") != strings.Join(want, ",") {
		t.Errorf("Missing() = %v, want %v", missing, want)
	}
	if p.IsComplete() {
		t.Error("partial profile reported complete")
	}

	full := Profile{
		FullName:          "Jane Doe",
		ProfessionalTitle: "Engineer",
		Skills:            "Go",
		LastRole:          "Backend Engineer",
		Education:         "BSc",
	}
	if !full.IsComplete() {
		t.Error("full profile reported incomplete")
	}
}

func TestProfile_Merge(t *testing.T) {
	base := Profile{FullName: "Jane Doe", Skills: "Go"}
	merged := base.Merge(Profile{Skills: "Go, SQL", Education: " MSc ", FullName: ""})

	if merged.FullName != "Jane Doe" {
		t.Errorf("FullName = %q, empty overlay must not clear it", merged.FullName)
	}
	if merged.Skills != "Go, SQL" {
		t.Errorf("Skills = %q, want Go, SQL", merged.Skills)
	}
	if merged.Education != "MSc" {
		t.Errorf("Education = %q, want trimmed MSc", merged.Education)
	}
}

func TestProfile_Summary(t *testing.T) {
	s := Profile{FullName: "Jane Doe"}.Summary()
	if !strings.HasPrefix(s, "USER PROFILE:\nFull Name: Jane Doe\n") {
		t.Errorf("unexpected summary: %q", s)
	}
}

func TestChatResponse_OmitsEmptyFields(t *testing.T) {
	data, _ := json.Marshal(ChatResponse{ProfileComplete: false})
	if string(data) != `{"profile_complete":false}` {
		t.Errorf("unexpected encoding: %s", data)
	}
}
