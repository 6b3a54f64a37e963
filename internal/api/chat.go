package api

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

// Chat sends the full transcript to the chat endpoint. An empty history is
// the opening turn and is sent as chat_history: [].
func (c *CopilotClient) Chat(history []models.ChatMessage) (models.ChatReply, error) {
	body, err := c.postJSON(models.PathChat, models.NewChatRequest(history))
	if err != nil {
		return models.ChatReply{}, err
	}
	return ParseChatReply(body)
}

// ParseChatReply validates a chat response body. Missing, null and empty
// response all mean "no text"; missing or null profile_complete means false.
// Anything that is not a JSON object, or fields of the wrong type, is a
// ParseError.
func ParseChatReply(body []byte) (models.ChatReply, error) {
	if !gjson.ValidBytes(body) {
		return models.ChatReply{}, apierrors.NewParseError("response is not valid JSON", models.PathChat)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return models.ChatReply{}, apierrors.NewParseError("response is not a JSON object", models.PathChat)
	}

	var reply models.ChatReply

	switch text := root.Get("response"); text.Type {
	case gjson.String:
		reply.Text = text.String()
		reply.HasText = reply.Text != ""
	case gjson.Null: // absent or null
	default:
		return models.ChatReply{}, apierrors.NewParseError("response must be a string", models.PathChat)
	}

	switch complete := root.Get("profile_complete"); complete.Type {
	case gjson.True:
		reply.Complete = true
	case gjson.False, gjson.Null:
	default:
		return models.ChatReply{}, apierrors.NewParseError("profile_complete must be a boolean", models.PathChat)
	}

	if p := root.Get("updated_profile"); p.IsObject() {
		var profile models.Profile
		if err := json.Unmarshal([]byte(p.Raw), &profile); err == nil && !profile.IsEmpty() {
			reply.Profile = &profile
		}
	}

	return reply, nil
}
