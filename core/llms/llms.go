// Package llms holds the types shared by the generation backends.
package llms

// Response is a single response from an LLM.
type Response struct {
	Content string
}

// TurnRole describes who a conversation turn is from.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is one prior exchange handed to the backend as conversation history.
type Turn struct {
	Role    TurnRole
	Content string
}
