package dialogue

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/usakkolabs/usakko-core/core/llms"
)

// Turn is one entry in the conversation log. Turns are immutable once
// appended; insertion order is the display order.
type Turn struct {
	ID      uuid.UUID
	Role    llms.TurnRole
	Content string
	// Mode is the mode that was active when the turn was produced. For
	// assistant turns this is the mode captured at dispatch time, so a
	// response that lands after a reset keeps its original label.
	Mode      Mode
	Timestamp time.Time
}

func newTurn(role llms.TurnRole, content string, mode Mode) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Mode:      mode,
		Timestamp: time.Now(),
	}
}

// Turns is an append-only ordered conversation log.
type Turns struct {
	turns []Turn
}

// Push adds a new turn to the stored turns
func (t *Turns) Push(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Clear removes all stored turns
func (t *Turns) Clear() {
	t.turns = nil
}

// Len returns the number of stored turns
func (t *Turns) Len() int {
	return len(t.turns)
}

// Last returns the latest stored turn, or nil if empty. The latest turn is
// the one presentation layers give visual emphasis to.
func (t *Turns) Last() *Turn {
	if len(t.turns) == 0 {
		return nil
	}
	turn := t.turns[len(t.turns)-1]
	return &turn
}

// Values is an iterator that goes over all the stored turns starting from the
// earliest towards the latest
func (t *Turns) Values(yield func(Turn) bool) {
	for _, turn := range t.turns {
		if !yield(turn) {
			return
		}
	}
}

// RValues is an iterator that goes over all the stored turns starting from the
// latest towards the earliest
func (t *Turns) RValues(yield func(Turn) bool) {
	for _, turn := range slices.Backward(t.turns) {
		if !yield(turn) {
			return
		}
	}
}

// history converts the log into generation-backend turns, oldest first.
func (t *Turns) history() []llms.Turn {
	history := make([]llms.Turn, 0, len(t.turns))
	for _, turn := range t.turns {
		history = append(history, llms.Turn{Role: turn.Role, Content: turn.Content})
	}
	return history
}
