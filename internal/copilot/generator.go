package copilot

import (
	"errors"
	"strings"
	"sync"

	"github.com/diogo/careerpilot/internal/api"
	"github.com/diogo/careerpilot/internal/models"
)

// Generator errors. Both mean no request was sent.
var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrGenerationPending   = errors.New("a document is already being generated")
)

// Generator requests documents with a single in-flight slot. Request
// failures never surface as errors: the returned Document carries the
// kind's fallback text and the cause.
type Generator struct {
	client api.CopilotClientInterface

	mu   sync.Mutex
	busy bool
	last models.Document
}

// NewGenerator creates a generator over client
func NewGenerator(client api.CopilotClientInterface) *Generator {
	return &Generator{client: client}
}

// CanGenerate reports whether a request for jobDescription would be sent now
func (g *Generator) CanGenerate(jobDescription string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.busy && strings.TrimSpace(jobDescription) != ""
}

// Busy reports whether a generation is in flight
func (g *Generator) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Last returns the most recent document; the zero Document before any
func (g *Generator) Last() models.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Generate requests one document. It blocks for the duration of the request.
func (g *Generator) Generate(kind models.DocumentKind, jobDescription string) (models.Document, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return models.Document{}, ErrEmptyJobDescription
	}

	g.mu.Lock()
	if g.busy {
		g.mu.Unlock()
		return models.Document{}, ErrGenerationPending
	}
	g.busy = true
	g.last = models.Document{Kind: kind}
	g.mu.Unlock()

	content, err := g.client.GenerateDocument(kind, jobDescription)

	doc := models.Document{Kind: kind, Content: content}
	if err != nil {
		doc = models.Document{Kind: kind, Content: kind.FallbackText(), Failed: true, Cause: err}
	}

	g.mu.Lock()
	g.busy = false
	g.last = doc
	g.mu.Unlock()

	return doc, nil
}
