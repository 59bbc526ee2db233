package telegram

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jfk9w-go/flu"
	"github.com/pkg/errors"
)

// responseParameters contains information about why a request was unsuccessful.
// See https://core.telegram.org/bots/api#responseparameters
type responseParameters struct {
	MigrateToChatID ID  `json:"migrate_to_chat_id"`
	RetryAfter      int `json:"retry_after"`
}

// response is a generic Telegram Bot API response envelope.
// See https://core.telegram.org/bots/api#making-requests
type response struct {
	Ok          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code"`
	Description string              `json:"description"`
	Result      interface{}         `json:"result"`
	Parameters  *responseParameters `json:"parameters"`

	method string
}

func newResponse(method string, result interface{}) *response {
	return &response{
		Result: result,
		method: method,
	}
}

func (r *response) Handle(httpResp *http.Response) error {
	if err := flu.JSON(r).DecodeFrom(httpResp.Body); err != nil {
		return errors.Wrapf(err, "decode %s response", r.method)
	}

	if r.Ok {
		return nil
	}

	apiErr := Error{
		Method:      r.method,
		StatusCode:  httpResp.StatusCode,
		Description: r.Description,
	}

	if r.Parameters != nil && r.Parameters.RetryAfter > 0 {
		apiErr.RetryAfter = time.Duration(r.Parameters.RetryAfter) * time.Second
	}

	return apiErr
}

// Error is an error returned by the Bot API.
// See https://core.telegram.org/bots/api#making-requests
type Error struct {
	// Method is the failed API method name.
	Method string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Description explains the error.
	Description string
	// RetryAfter is the flood control hint, if any.
	RetryAfter time.Duration
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Method, e.StatusCode, e.Description)
}

// Flood reports whether the call was rejected by rate limiting.
func (e Error) Flood() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// FloodWait returns the wait before the call may be repeated.
func (e Error) FloodWait() time.Duration {
	if e.RetryAfter > DefaultFloodWait {
		return e.RetryAfter
	}

	return DefaultFloodWait
}
