package llms

// PromptOptions contains the options shared by all prompt variants.
type PromptOptions struct {
	Instructions string
	Turns        []Turn
	Temperature  *float64
}

// PromptOption modifies the prompt options.
type PromptOption func(*PromptOptions)

// WithInstructions sets the system instructions for the prompt.
func WithInstructions(instructions string) PromptOption {
	return func(o *PromptOptions) {
		o.Instructions = instructions
	}
}

// WithTurns provides prior conversation turns as context for the prompt.
func WithTurns(turns ...Turn) PromptOption {
	return func(o *PromptOptions) {
		o.Turns = append(o.Turns, turns...)
	}
}

// WithTemperature sets the sampling temperature for the prompt.
func WithTemperature(temperature float64) PromptOption {
	return func(o *PromptOptions) {
		o.Temperature = &temperature
	}
}
