// Package deepgram synthesizes speech through Deepgram's speak websocket.
//
// Unlike streaming integrations this client is one-shot: it opens a
// connection per utterance, sends the whole text, collects the raw PCM
// frames until the flush confirmation and closes the connection. The result
// is returned base64 encoded to match the synthesis contract.
package deepgram

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/usakkolabs/usakko-core/core/audio"
	"github.com/usakkolabs/usakko-core/core/texttospeech"
)

type SynthesisClient struct {
	voice Voice
}

func NewSynthesisClient(voice Voice) (*SynthesisClient, error) {
	if !slices.Contains(AvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	return &SynthesisClient{voice: voice}, nil
}

// Synthesize converts text to a base64 PCM payload.
func (c *SynthesisClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (string, error) {
	options := texttospeech.SynthesisOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.EncodingInfo.IsZero() {
		options.EncodingInfo = audio.GetDefaultEncodingInfo()
	}

	conn, err := connectWebsocket(c.voice, options.EncodingInfo)
	if err != nil {
		return "", fmt.Errorf("failed to open websocket: %w", err)
	}
	defer conn.Close()

	if err := sendWebsocketMessage(conn, speakMsg(text)); err != nil {
		return "", fmt.Errorf("failed to send speak message: %w", err)
	}
	if err := sendWebsocketMessage(conn, flushMsg); err != nil {
		return "", fmt.Errorf("failed to send flush message: %w", err)
	}

	collected, err := collectAudio(ctx, conn)
	if err != nil {
		return "", err
	}

	if err := sendWebsocketMessage(conn, closeMsg); err != nil {
		// The audio is already in hand, a failed close is not worth failing
		// the utterance over.
		log.Printf("Failed to close deepgram stream cleanly: %v", err)
	}

	if len(collected) == 0 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(collected), nil
}

// collectAudio reads frames off the websocket until the backend confirms the
// flush, an error arrives, or the context is cancelled.
func collectAudio(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	collected := []byte{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("websocket read error: %w", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			collected = append(collected, msg...)
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				log.Printf("Failed to unmarshal deepgram message: %v", err)
				continue
			}

			switch api.TypeResponse(parsedMsg.Type) {
			case api.TypeFlushedResponse:
				return collected, nil
			case api.TypeResponse(api.TypeErrorResponse):
				var errResp api.ErrorResponse
				if err := json.Unmarshal(msg, &errResp); err != nil {
					return nil, fmt.Errorf("deepgram reported an error")
				}
				return nil, fmt.Errorf("deepgram error: %s (%s)", errResp.ErrMsg, errResp.Description)
			case api.TypeWarningResponse:
				var warnResp api.WarningResponse
				if err := json.Unmarshal(msg, &warnResp); err == nil {
					log.Printf("Deepgram warning: %s", warnResp.WarnMsg)
				}
			default:
				// Metadata and anything newer is informational only.
			}
		}
	}
}

func connectWebsocket(voice Voice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.Dial(
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

type websocketMessage struct {
	Type string `json:"type"`
}

type speakMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var (
	speakMsg = func(text string) speakMessage {
		return speakMessage{Type: "Speak", Text: text}
	}
	flushMsg = websocketMessage{Type: "Flush"}
	closeMsg = websocketMessage{Type: "Close"}
)

func sendWebsocketMessage(conn *websocket.Conn, msg any) error {
	serialized, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal websocket message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
		return fmt.Errorf("failed to write websocket message: %w", err)
	}
	return nil
}
