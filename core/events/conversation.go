package events

const (
	// KindModeChanged identifies a persona mode switch.
	KindModeChanged Kind = "conversation.mode_changed"
	// KindConversationReset identifies a reset back to the start screen.
	KindConversationReset Kind = "conversation.reset"
)

// ModeChanged reports that the active persona mode switched.
type ModeChanged struct {
	Base
	Previous string
	Current  string
}

// NewModeChanged creates a mode changed event.
func NewModeChanged(previous, current string) ModeChanged {
	return ModeChanged{Base: NewBase(KindModeChanged), Previous: previous, Current: current}
}

// ConversationReset reports that the conversation log was cleared and the
// greeting re-seeded.
type ConversationReset struct{ Base }

// NewConversationReset creates a conversation reset event.
func NewConversationReset() ConversationReset {
	return ConversationReset{Base: NewBase(KindConversationReset)}
}
