package copilot

import (
	"errors"

	apierrors "github.com/diogo/careerpilot/internal/errors"
)

// Chat failure texts shown in the transcript
const (
	MsgConnectFailed = "Sorry, I couldn't connect to the server."
	MsgBadReply      = "Sorry, I received a reply I couldn't understand."
	msgErrorPrefix   = "Sorry, an error occurred: "
)

// FailureMessage turns a chat error into the bot message shown to the user.
// Server errors quote the response body; everything that never produced a
// response reads as a connection failure.
func FailureMessage(err error) string {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return msgErrorPrefix + apiErr.Detail()
	case apierrors.IsParseError(err):
		return MsgBadReply
	default:
		return MsgConnectFailed
	}
}
