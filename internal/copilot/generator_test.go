package copilot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/diogo/careerpilot/internal/api"
	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

// blockingClient holds GenerateDocument until release is closed
type blockingClient struct {
	api.MockClient
	entered chan struct{}
	release chan struct{}
}

func (b *blockingClient) GenerateDocument(kind models.DocumentKind, jd string) (string, error) {
	close(b.entered)
	<-b.release
	return b.MockClient.GenerateDocument(kind, jd)
}

func TestGenerator_Success(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "# Jane Doe\nSenior Engineer"}
	g := NewGenerator(mock)

	doc, err := g.Generate(models.KindCV, "Senior Engineer...")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if doc.Failed || doc.Content != "# Jane Doe\nSenior Engineer" || doc.Kind != models.KindCV {
		t.Errorf("doc = %+v", doc)
	}
	if g.Last().Content != doc.Content {
		t.Error("Last() should return the generated document")
	}
	if mock.LastJobDesc != "Senior Engineer..." {
		t.Errorf("job description sent = %q", mock.LastJobDesc)
	}
}

func TestGenerator_FailureYieldsFallback(t *testing.T) {
	tests := []struct {
		kind models.DocumentKind
		err  error
		want string
	}{
		{models.KindCV, apierrors.NewAPIError(500, "/api/generate-cv", "HTTP 500"), "An error occurred while generating the CV. Please check the logs."},
		{models.KindCoverLetter, apierrors.NewNetworkError(errors.New("refused")), "An error occurred while generating the Cover Letter. Please check the logs."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			g := NewGenerator(&api.MockClient{DocumentErr: tt.err})

			doc, err := g.Generate(tt.kind, "jd")
			if err != nil {
				t.Fatalf("request failures must not be returned as errors: %v", err)
			}
			if !doc.Failed || doc.Content != tt.want {
				t.Errorf("doc = %+v", doc)
			}
			if !errors.Is(doc.Cause, tt.err) {
				t.Errorf("Cause = %v, want %v", doc.Cause, tt.err)
			}
		})
	}
}

func TestGenerator_RefusesEmptyJobDescription(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "x"}
	g := NewGenerator(mock)

	for _, jd := range []string{"", "   ", "\n\t"} {
		if g.CanGenerate(jd) {
			t.Errorf("CanGenerate(%q) = true", jd)
		}
		if _, err := g.Generate(models.KindCV, jd); !errors.Is(err, ErrEmptyJobDescription) {
			t.Errorf("Generate(%q) error = %v", jd, err)
		}
	}
	if mock.DocumentCallCount() != 0 {
		t.Errorf("requests sent = %d, want 0", mock.DocumentCallCount())
	}
}

func TestGenerator_SingleInFlight(t *testing.T) {
	client := &blockingClient{
		MockClient: api.MockClient{DocumentVal: "done"},
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	g := NewGenerator(client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = g.Generate(models.KindCV, "jd")
	}()

	select {
	case <-client.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never started")
	}

	if !g.Busy() || g.CanGenerate("jd") {
		t.Error("generator should be busy")
	}
	if g.Last().Content != "" {
		t.Error("previous output should be discarded when a generation starts")
	}
	if _, err := g.Generate(models.KindCoverLetter, "jd"); !errors.Is(err, ErrGenerationPending) {
		t.Errorf("second Generate error = %v, want ErrGenerationPending", err)
	}

	close(client.release)
	wg.Wait()

	if g.Busy() {
		t.Error("generator should be idle after completion")
	}
	if client.DocumentCallCount() != 1 {
		t.Errorf("requests sent = %d, want 1", client.DocumentCallCount())
	}
	if !g.CanGenerate("jd") {
		t.Error("generator should accept a new request")
	}
}
