package telegram

import (
	"fmt"
	"strconv"
)

// ID is an item identifier (chat, message, user, update, etc.)
type ID int64

// ParseID tries to parse a value as ID.
func ParseID(value string) (ID, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	return ID(id), err
}

func (id ID) queryParam() string {
	if int64(id) == 0 {
		return ""
	}
	return id.String()
}

// Increment returns the ID incremented by one.
func (id ID) Increment() ID {
	return ID(int64(id) + 1)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Username represents a Telegram username.
type Username string

func (username Username) queryParam() string {
	return "@" + string(username)
}

func (username Username) String() string {
	return username.queryParam()
}

// ChatID is either an ID or channel Username in various API calls.
type ChatID interface {
	fmt.Stringer
	queryParam() string
}

// ParseMode is a parse_mode request parameter type.
type ParseMode string

const (
	None     ParseMode = ""
	Markdown ParseMode = "Markdown"
	HTML     ParseMode = "HTML"

	// MaxMessageSize is maximum message character length.
	MaxMessageSize = 4096
)

// ChatType can be either "private", "group", "supergroup" or "channel".
type ChatType string

const (
	PrivateChat ChatType = "private"
	GroupChat   ChatType = "group"
	Supergroup  ChatType = "supergroup"
	Channel     ChatType = "channel"
)

type BotCommandScopeType string

const (
	BotCommandScopeDefault         BotCommandScopeType = "default"
	BotCommandScopeAllPrivateChats BotCommandScopeType = "all_private_chats"
	BotCommandScopeAllGroupChats   BotCommandScopeType = "all_group_chats"
	BotCommandScopeChat            BotCommandScopeType = "chat"
)

type (
	// User (https://core.telegram.org/bots/api#user)
	User struct {
		ID        ID        `json:"id"`
		IsBot     bool      `json:"is_bot"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Username  *Username `json:"username"`
	}

	// Chat (https://core.telegram.org/bots/api#chat)
	Chat struct {
		ID        ID        `json:"id"`
		Type      ChatType  `json:"type"`
		Title     string    `json:"title"`
		Username  *Username `json:"username"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
	}

	// MessageFile is a reference to a file hosted by the platform.
	MessageFile struct {
		ID     string `json:"file_id"`
		Width  int    `json:"width,omitempty"`
		Height int    `json:"height,omitempty"`
	}

	// Message (https://core.telegram.org/bots/api#message)
	Message struct {
		ID             ID              `json:"message_id"`
		From           User            `json:"from"`
		Date           int             `json:"date"`
		Chat           Chat            `json:"chat"`
		Text           string          `json:"text"`
		Caption        string          `json:"caption"`
		Entities       []MessageEntity `json:"entities"`
		ReplyToMessage *Message        `json:"reply_to_message"`
		MediaGroupID   string          `json:"media_group_id"`
		Photo          []MessageFile   `json:"photo"`
		Video          *MessageFile    `json:"video"`
		Animation      *MessageFile    `json:"animation"`
		Document       *MessageFile    `json:"document"`
	}

	// MessageEntity (https://core.telegram.org/bots/api#messageentity)
	MessageEntity struct {
		Type   string `json:"type"`
		Offset int    `json:"offset"`
		Length int    `json:"length"`
		URL    string `json:"url"`
		User   *User  `json:"user"`
	}

	// Update (https://core.telegram.org/bots/api#update)
	Update struct {
		ID                ID             `json:"update_id"`
		Message           *Message       `json:"message"`
		EditedMessage     *Message       `json:"edited_message"`
		ChannelPost       *Message       `json:"channel_post"`
		EditedChannelPost *Message       `json:"edited_channel_post"`
		CallbackQuery     *CallbackQuery `json:"callback_query"`
	}

	// CallbackQuery (https://core.telegram.org/bots/api#callbackquery)
	CallbackQuery struct {
		ID      string   `json:"id"`
		From    User     `json:"from"`
		Message *Message `json:"message"`
		Data    *string  `json:"data"`
	}

	// File (https://core.telegram.org/bots/api#file)
	File struct {
		ID   string `json:"file_id"`
		Size int64  `json:"file_size"`
		Path string `json:"file_path"`
	}

	BotCommandScope struct {
		Type   BotCommandScopeType `json:"type"`
		ChatID ChatID              `json:"chat_id,omitempty"`
	}

	BotCommand struct {
		Command     string `json:"command"`
		Description string `json:"description"`
	}
)
