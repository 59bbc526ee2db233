package telegram

import (
	"context"
	"net/http"
	"time"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/httpf"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ValidStatusCodes is a slice of HTTP status codes which carry
// a decodable API response envelope.
var ValidStatusCodes = []int{
	http.StatusOK,
	http.StatusSeeOther,
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
}

var (
	// MaxFloodAttempts is the total attempt ceiling for a rate limited call.
	MaxFloodAttempts = 3

	// DefaultFloodWait is the minimum wait between rate limited attempts.
	DefaultFloodWait = time.Second
)

type endpointFunc func(method string) string

// Client executes typed Bot API calls.
// It retries rate limited calls and translates envelope failures into Error.
type Client struct {
	client       httpf.Client
	endpoint     endpointFunc
	fileEndpoint endpointFunc
	sleep        sleepFunc
}

// NewClient creates a Client for the given credential token.
// Empty baseURL means DefaultBaseURL, nil client means a fresh
// http.Client suitable for long polling.
func NewClient(client httpf.Client, baseURL, token string) *Client {
	if token == "" {
		log().Panicf(nil, "token must not be empty")
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if client == nil {
		transport := httpf.NewDefaultTransport()
		transport.ResponseHeaderTimeout = 2 * time.Minute
		client = &http.Client{Transport: transport}
	}

	return &Client{
		client:       client,
		endpoint:     func(method string) string { return baseURL + "/bot" + token + "/" + method },
		fileEndpoint: func(path string) string { return baseURL + "/file/bot" + token + "/" + path },
		sleep:        flu.Sleep,
	}
}

func (c *Client) String() string {
	return "telegram.client"
}

// GetMe is a simple method for testing the bot's auth token. Requires no parameters.
// See https://core.telegram.org/bots/api#getme
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	user := new(User)
	return user, c.Execute(ctx, "getMe", nil, user)
}

// GetUpdates is used to receive incoming updates using long polling.
// See https://core.telegram.org/bots/api#getupdates
func (c *Client) GetUpdates(ctx context.Context, options GetUpdatesOptions) ([]Update, error) {
	updates := make([]Update, 0)
	return updates, c.Execute(ctx, "getUpdates", flu.JSON(options), &updates)
}

// SendMessage is used to send text messages.
// See https://core.telegram.org/bots/api#sendmessage
func (c *Client) SendMessage(ctx context.Context, chatID ChatID, text string, options *SendMessageOptions) (*Message, error) {
	type request struct {
		ChatID string `json:"chat_id"`
		Text   string `json:"text"`
		*SendMessageOptions
	}

	req := request{chatID.queryParam(), text, options}
	message := new(Message)
	return message, c.Execute(ctx, "sendMessage", flu.JSON(req), message)
}

// SendChatAction is used to tell the user that something is happening on the bot's side.
// See https://core.telegram.org/bots/api#sendchataction
func (c *Client) SendChatAction(ctx context.Context, chatID ChatID, action string) error {
	type request struct {
		ChatID string `json:"chat_id"`
		Action string `json:"action"`
	}

	req := request{chatID.queryParam(), action}
	var ok bool
	if err := c.Execute(ctx, "sendChatAction", flu.JSON(req), &ok); err != nil {
		return err
	}

	if !ok {
		return errors.New("not ok")
	}

	return nil
}

// SetMyCommands is used to change the list of the bot's commands.
// See https://core.telegram.org/bots/api#setmycommands
func (c *Client) SetMyCommands(ctx context.Context, scope *BotCommandScope, commands []BotCommand) error {
	type request struct {
		Commands []BotCommand     `json:"commands"`
		Scope    *BotCommandScope `json:"scope,omitempty"`
	}

	req := request{commands, scope}
	var ok bool
	if err := c.Execute(ctx, "setMyCommands", flu.JSON(req), &ok); err != nil {
		return err
	}

	if !ok {
		return errors.New("not ok")
	}

	return nil
}

// AnswerCallbackQuery is used to send answers to callback queries sent from inline keyboards.
// See https://core.telegram.org/bots/api#answercallbackquery
func (c *Client) AnswerCallbackQuery(ctx context.Context, id string, options *AnswerCallbackQueryOptions) error {
	type request struct {
		CallbackQueryID string `json:"callback_query_id"`
		*AnswerCallbackQueryOptions
	}

	req := request{id, options}
	var ok bool
	if err := c.Execute(ctx, "answerCallbackQuery", flu.JSON(req), &ok); err != nil {
		return err
	}

	if !ok {
		return errors.New("not ok")
	}

	return nil
}

// GetFile is used to get basic information about a file
// and prepare it for downloading.
// See https://core.telegram.org/bots/api#getfile
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	type request struct {
		FileID string `json:"file_id"`
	}

	req := request{fileID}
	file := new(File)
	return file, c.Execute(ctx, "getFile", flu.JSON(req), file)
}

// DownloadFile copies the contents of a file previously resolved
// via GetFile into out.
func (c *Client) DownloadFile(ctx context.Context, path string, out flu.Output) error {
	return httpf.GET(c.fileEndpoint(path)).
		Exchange(ctx, c.client).
		CheckStatus(http.StatusOK).
		CopyBody(out).
		Error()
}

// Execute performs a single typed API call.
// Rate limited calls are repeated up to MaxFloodAttempts total attempts,
// waiting for the flood control hint (at least DefaultFloodWait) in between.
// Any other failure is returned as is.
func (c *Client) Execute(ctx context.Context, method string, body flu.EncoderTo, result interface{}) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = c.execute(ctx, method, body, result)
		flood := new(Error)
		if err == nil || !errors.As(err, flood) || !flood.Flood() || attempt >= MaxFloodAttempts {
			break
		}

		logf.Get(c).Warnf(ctx, "%s: flood control, sleeping for %s", method, flood.FloodWait())
		if err := c.sleep(ctx, flood.FloodWait()); err != nil {
			return err
		}
	}

	logf.Get(c).Resultf(ctx, logf.Trace, logf.Warn, "execute [%s]: %v", method, err)
	return err
}

func (c *Client) execute(ctx context.Context, method string, body flu.EncoderTo, result interface{}) error {
	return httpf.POST(c.endpoint(method), body).
		Exchange(ctx, c.client).
		CheckStatus(ValidStatusCodes...).
		Handle(newResponse(method, result)).
		Error()
}
