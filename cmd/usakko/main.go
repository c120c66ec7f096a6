// Command usakko is a terminal front end for the うさっこ三兄弟 social
// studies tutor: three personas that answer only with questions, hints and
// flashcards, never with answers.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	dialogue "github.com/usakkolabs/usakko-core/core"
	"github.com/usakkolabs/usakko-core/core/audio/miniaudio"
	"github.com/usakkolabs/usakko-core/core/llms/gemini"
	routellm "github.com/usakkolabs/usakko-core/core/routing/llm"
	ttsgemini "github.com/usakkolabs/usakko-core/core/texttospeech/gemini"
)

func main() {
	model := flag.String("model", gemini.DefaultModel, "generation model")
	speak := flag.Bool("speak", false, "read replies aloud")
	voice := flag.String("voice", ttsgemini.DefaultVoice, "synthesis voice (with -speak)")
	classify := flag.Bool("classify", false, "infer mode switches from free text with the llm")
	flag.Parse()

	apiKey, ok := os.LookupEnv("GEMINI_API_KEY")
	if !ok {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is not set")
		os.Exit(1)
	}

	opts := []dialogue.OrchestratorOption{
		dialogue.WithGenerator(gemini.NewClient(apiKey, gemini.WithModel(*model))),
	}
	if *speak {
		opts = append(opts,
			dialogue.WithSynthesizer(ttsgemini.NewSynthesisClient(apiKey)),
			dialogue.WithSpeechPlayer(miniaudio.NewPlayer()),
			dialogue.WithSynthesisVoice(*voice),
		)
	}
	if *classify {
		opts = append(opts, dialogue.WithModeClassifier(routellm.NewClassifier(apiKey)))
	}

	orchestrator := dialogue.New(opts...)

	program := tea.NewProgram(newModel(orchestrator), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}
