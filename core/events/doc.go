// Package events defines the typed dialogue event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - conversation.*
//   - turn.*
//   - generation.*
//   - speech.*
//
// conversation events
//
//   - ModeChanged (conversation.mode_changed): the active persona mode
//     switched, carries the previous and current mode names.
//   - ConversationReset (conversation.reset): the conversation was reset to
//     the start screen, log cleared and greeting re-seeded.
//
// turn events
//
//   - TurnAppended (turn.appended): a turn was appended to the conversation
//     log. Turns are immutable once appended, so one event per turn.
//
// generation events
//
//   - GenerationStarted (generation.started): a prompt was dispatched to the
//     generation backend; carries the mode captured at dispatch time.
//   - GenerationEnded (generation.ended): the generation call resolved,
//     successfully or not.
//
// speech events
//
//   - SpeechStarted (speech.started): playback of a synthesized utterance
//     began.
//   - SpeechEnded (speech.ended): playback of a synthesized utterance
//     finished or failed.
package events
