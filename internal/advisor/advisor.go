// Package advisor implements the co-pilot's chat and document generation
// on top of a language model and a profile store.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/diogo/careerpilot/internal/llm"
	"github.com/diogo/careerpilot/internal/models"
	"github.com/diogo/careerpilot/internal/profile"
)

var (
	// ErrModelUnavailable wraps failures to reach the model during chat
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrProfileIncomplete is returned when generation runs without a stored name
	ErrProfileIncomplete = errors.New(MsgIncomplete)
	// ErrGenerationFailed wraps model failures during document generation
	ErrGenerationFailed = errors.New(MsgGenerateError)
	// ErrEmptyJobDescription is returned for a blank job description
	ErrEmptyJobDescription = errors.New("job description is required")
)

// Advisor answers chat turns and generates documents
type Advisor struct {
	model    llm.Client
	store    profile.Store
	userName string
	logger   *slog.Logger

	// profileMu serializes load-merge-save so concurrent turns do not
	// drop each other's fields.
	profileMu sync.Mutex
}

// Option configures an Advisor
type Option func(*Advisor)

// WithUserName personalises the prompts and greetings
func WithUserName(name string) Option {
	return func(a *Advisor) {
		a.userName = strings.TrimSpace(name)
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Advisor. A nil store behaves as profile.Disabled.
func New(model llm.Client, store profile.Store, opts ...Option) *Advisor {
	if store == nil {
		store = profile.Disabled{}
	}
	a := &Advisor{
		model:  model,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Chat answers one turn of the profile conversation. Only a failure to
// reach the model is returned as an error; unusable model output becomes a
// polite request to rephrase.
func (a *Advisor) Chat(ctx context.Context, history []models.ChatMessage) (models.ChatResponse, error) {
	if len(history) == 0 {
		return a.opening(ctx), nil
	}

	raw, err := a.model.GenerateJSON(ctx, BuildChatPrompt(a.userName, history))
	if err != nil {
		a.logger.Error("chat generation failed", "error", err, "turns", len(history))
		return models.ChatResponse{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	reply, err := parseModelReply(raw)
	if err != nil {
		a.logger.Warn("unparseable chat reply", "error", err)
		return models.ChatResponse{Response: MsgRephrase}, nil
	}

	merged := a.mergeProfile(ctx, reply.UpdatedProfile)

	resp := models.ChatResponse{
		Response:        reply.Response,
		ProfileComplete: reply.ProfileComplete || merged.IsComplete(),
	}
	if !merged.IsEmpty() {
		resp.UpdatedProfile = &merged
	}
	return resp, nil
}

// opening handles the empty-history turn: returning users skip straight to
// the job description, new users get the model's first question.
func (a *Advisor) opening(ctx context.Context) models.ChatResponse {
	existing := a.loadProfile(ctx)
	if existing.FullName != "" {
		return models.ChatResponse{
			Response:        MsgWelcomeBack,
			UpdatedProfile:  &existing,
			ProfileComplete: true,
		}
	}

	fallback := models.ChatResponse{Response: FallbackGreeting(a.userName)}
	seed := []models.ChatMessage{models.BotMessage(Greeting(a.userName))}

	raw, err := a.model.GenerateJSON(ctx, BuildChatPrompt(a.userName, seed))
	if err != nil {
		a.logger.Error("opening question failed", "error", err)
		return fallback
	}
	reply, err := parseModelReply(raw)
	if err != nil || reply.Response == "" {
		a.logger.Warn("unusable opening question", "error", err)
		return fallback
	}
	return reply
}

// Generate writes a document of the given kind for the stored profile
func (a *Advisor) Generate(ctx context.Context, kind models.DocumentKind, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", ErrEmptyJobDescription
	}

	p := a.loadProfile(ctx)
	if p.FullName == "" {
		return "", ErrProfileIncomplete
	}

	content, err := a.model.GenerateContent(ctx, BuildGenerationPrompt(a.userName, p, jobDescription, kind))
	if err != nil {
		a.logger.Error("document generation failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(content) == "" {
		a.logger.Error("document generation returned no text", "kind", kind)
		return "", ErrGenerationFailed
	}
	return content, nil
}

// Profile returns the stored profile
func (a *Advisor) Profile(ctx context.Context) (models.Profile, error) {
	return a.store.Load(ctx)
}

// Storage names the profile store backing the advisor
func (a *Advisor) Storage() string {
	return profile.Kind(a.store)
}

// Model names the language model in use
func (a *Advisor) Model() string {
	return a.model.Model()
}

// mergeProfile applies update to the stored profile, saving when anything
// changed, and returns the result.
func (a *Advisor) mergeProfile(ctx context.Context, update *models.Profile) models.Profile {
	a.profileMu.Lock()
	defer a.profileMu.Unlock()

	stored := a.loadProfile(ctx)
	if update == nil || update.IsEmpty() {
		return stored
	}
	merged := stored.Merge(*update)
	if merged != stored {
		a.saveProfile(ctx, merged)
	}
	return merged
}

func (a *Advisor) loadProfile(ctx context.Context) models.Profile {
	p, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Error("failed to load profile", "error", err)
		return models.Profile{}
	}
	return p
}

func (a *Advisor) saveProfile(ctx context.Context, p models.Profile) {
	err := a.store.Save(ctx, p)
	switch {
	case err == nil:
		a.logger.Info("profile saved", "missing", p.Missing())
	case errors.Is(err, profile.ErrDisabled):
		a.logger.Debug("profile not saved, storage disabled")
	default:
		a.logger.Error("failed to save profile", "error", err)
	}
}

// parseModelReply reads the JSON object the chat prompt asks for. The
// model is not trusted to get the types right, so fields are read leniently.
func parseModelReply(raw string) (models.ChatResponse, error) {
	raw = llm.CleanJSONBlock(raw)
	if !gjson.Valid(raw) {
		return models.ChatResponse{}, fmt.Errorf("reply is not valid JSON")
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return models.ChatResponse{}, fmt.Errorf("reply is not a JSON object")
	}

	var out models.ChatResponse
	if r := root.Get("response"); r.Type == gjson.String {
		out.Response = strings.TrimSpace(r.String())
	}
	out.ProfileComplete = root.Get("profile_complete").Bool()

	if up := root.Get("updated_profile"); up.IsObject() {
		var p models.Profile
		if err := json.Unmarshal([]byte(up.Raw), &p); err == nil {
			p = models.Profile{}.Merge(p)
			if !p.IsEmpty() {
				out.UpdatedProfile = &p
			}
		}
	}

	if out.Response == "" && !out.ProfileComplete {
		return models.ChatResponse{}, fmt.Errorf("reply has no response text")
	}
	return out, nil
}
