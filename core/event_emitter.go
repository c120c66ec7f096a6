package dialogue

import (
	"github.com/usakkolabs/usakko-core/core/events"
	"github.com/usakkolabs/usakko-core/core/llms"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(callbacks callbacks) eventEmitter {
	return func(event events.Event) {
		if callbacks.onEvent != nil {
			callbacks.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.ModeChanged:
			if callbacks.onModeChanged != nil {
				callbacks.onModeChanged(Mode(typedEvent.Previous), Mode(typedEvent.Current))
			}
		case events.ConversationReset:
			if callbacks.onReset != nil {
				callbacks.onReset()
			}
		case events.TurnAppended:
			if callbacks.onTurnAppended != nil {
				callbacks.onTurnAppended(llms.TurnRole(typedEvent.Role), typedEvent.Content, Mode(typedEvent.Mode))
			}
		case events.GenerationStarted:
			if callbacks.onGenerationStateChanged != nil {
				callbacks.onGenerationStateChanged(true)
			}
		case events.GenerationEnded:
			if callbacks.onGenerationStateChanged != nil {
				callbacks.onGenerationStateChanged(false)
			}
		case events.SpeechStarted:
			if callbacks.onSpeechStateChanged != nil {
				callbacks.onSpeechStateChanged(true)
			}
		case events.SpeechEnded:
			if callbacks.onSpeechStateChanged != nil {
				callbacks.onSpeechStateChanged(false)
			}
		}
	}
}
