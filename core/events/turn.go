package events

const (
	// KindTurnAppended identifies a turn appended to the conversation log.
	KindTurnAppended Kind = "turn.appended"
)

// TurnAppended carries the content of a newly appended turn.
type TurnAppended struct {
	Base
	TurnID  string
	Role    string
	Mode    string
	Content string
}

// NewTurnAppended creates a turn appended event.
func NewTurnAppended(turnID, role, mode, content string) TurnAppended {
	return TurnAppended{
		Base:    NewBase(KindTurnAppended),
		TurnID:  turnID,
		Role:    role,
		Mode:    mode,
		Content: content,
	}
}
