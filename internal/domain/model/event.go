package model

// EventKind classifies one normalized webhook delivery.
type EventKind string

const (
	EventText    EventKind = "text"
	EventButton  EventKind = "button"
	EventUnknown EventKind = "unknown"
)

// InboundEvent is the normalized view of one webhook delivery.
type InboundEvent struct {
	ChatID       int64
	Kind         EventKind
	Text         string // set for EventText
	CallbackData string // set for EventButton
}

// InlineButton is one button of an inline keyboard. Data is sent back as
// callback data when pressed; URL buttons open a link instead.
type InlineButton struct {
	Text string
	Data string
	URL  string
}

// OutboundReply is one message the bot decides to send. At most one of
// Inline, Keyboard or RemoveKeyboard is expected to be set.
type OutboundReply struct {
	Text           string
	Inline         [][]InlineButton
	Keyboard       [][]string
	RemoveKeyboard bool
}
