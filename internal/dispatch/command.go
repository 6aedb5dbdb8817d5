// Package dispatch routes parsed chat commands to the store, resolver,
// trigger matcher and scheduler ledger, and shapes the outcome the
// transport layer renders. It owns no durable state and never talks to the
// chat transport itself.
package dispatch

import "github.com/edgard/gifbot/internal/model"

// Kind is the closed set of commands the bot understands. Adding a command
// means adding a variant here and a handler in the dispatcher, not patching
// a dispatch table at runtime.
type Kind int

const (
	KindStart Kind = iota
	KindHelp
	KindSearch
	KindRandom
	KindRandomAny
	KindTrending
	KindFavAdd
	KindFavList
	KindFavRemove
	KindLabel
	KindQuickGif
	KindTogglePassive
	KindSetMax
	KindToggleSafe
	KindStats
	KindQuote
	KindSchedule
	KindUnschedule
	KindInfo
)

// Command is one parsed inbound command. The transport layer fills in the
// sender's admin capability (private chats always count as admin) and the
// media carried by a replied-to message, if any.
type Command struct {
	Kind Kind
	Args []string

	UserID  int64
	ChatID  int64
	Private bool

	// SenderIsAdmin reports the sender's admin capability in the chat, as
	// resolved by the transport. Ignored for non-gated commands.
	SenderIsAdmin bool

	// ReplyMedia is the media item extracted from the replied-to message,
	// nil when the command was not a reply or the message carried no media.
	ReplyMedia *model.MediaItem
}

// Media is one renderable media result with its caption.
type Media struct {
	Item    model.MediaItem
	Caption string
}

// Outcome is what the transport renders back to the chat: a text part, zero
// or more media parts, or an error translated into a user-facing message.
type Outcome struct {
	Text  string
	Media []Media

	// Err holds the typed error behind an error outcome. Text already
	// carries the user-facing message; Err is for logging and tests.
	Err error
}

// IsError reports whether the outcome represents a failed command.
func (o Outcome) IsError() bool {
	return o.Err != nil
}

func textOutcome(text string) Outcome {
	return Outcome{Text: text}
}
