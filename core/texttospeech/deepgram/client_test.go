package deepgram

import (
	"encoding/json"
	"testing"
)

func TestNewSynthesisClientRejectsUnknownVoice(t *testing.T) {
	if _, err := NewSynthesisClient(Voice("not-a-voice")); err == nil {
		t.Fatalf("expected error for unknown voice")
	}

	client, err := NewSynthesisClient(DefaultVoice)
	if err != nil {
		t.Fatalf("expected default voice to be accepted, got %v", err)
	}
	if client.voice != DefaultVoice {
		t.Fatalf("expected client to keep the voice, got %q", client.voice)
	}
}

func TestWebsocketMessagesSerialize(t *testing.T) {
	testCases := []struct {
		name     string
		msg      any
		expected string
	}{
		{name: "speak", msg: speakMsg("こんにちは"), expected: `{"type":"Speak","text":"こんにちは"}`},
		{name: "flush", msg: flushMsg, expected: `{"type":"Flush"}`},
		{name: "close", msg: closeMsg, expected: `{"type":"Close"}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			serialized, err := json.Marshal(testCase.msg)
			if err != nil {
				t.Fatalf("expected message to serialize, got %v", err)
			}
			if string(serialized) != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, serialized)
			}
		})
	}
}
