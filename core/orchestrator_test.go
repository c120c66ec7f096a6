package dialogue

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/usakkolabs/usakko-core/core/audio"
	"github.com/usakkolabs/usakko-core/core/llms"
	"github.com/usakkolabs/usakko-core/core/texttospeech"
)

type generationCall struct {
	Prompt  string
	Options llms.PromptOptions
}

type fakeGenerator struct {
	mu       sync.Mutex
	calls    []generationCall
	response string
	err      error

	started chan struct{}
	release chan struct{}
}

func (g *fakeGenerator) Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (*llms.Response, error) {
	options := llms.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	g.mu.Lock()
	g.calls = append(g.calls, generationCall{Prompt: prompt, Options: options})
	g.mu.Unlock()

	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}

	if g.err != nil {
		return nil, g.err
	}
	return &llms.Response{Content: g.response}, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) lastCall() generationCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

func TestNewSeedsGreeting(t *testing.T) {
	o := New()

	turns := o.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected exactly the greeting turn, got %d turns", len(turns))
	}
	if turns[0].Role != llms.TurnRoleAssistant {
		t.Errorf("expected an assistant greeting, got role %q", turns[0].Role)
	}
	if turns[0].Mode != ModeUnselected {
		t.Errorf("expected the greeting tagged %q, got %q", ModeUnselected, turns[0].Mode)
	}
	if turns[0].Content != Greeting {
		t.Errorf("expected the default greeting text, got %q", turns[0].Content)
	}
	if o.Mode() != ModeUnselected {
		t.Errorf("expected initial mode %q, got %q", ModeUnselected, o.Mode())
	}
}

func TestSubmitRejectsEmptyText(t *testing.T) {
	o := New()

	if err := o.Submit(t.Context(), "   \n "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if len(o.Turns()) != 1 {
		t.Fatal("expected no turn appended for empty input")
	}
}

func TestConversationScenario(t *testing.T) {
	generator := &fakeGenerator{response: "それはどうやって調べたの?"}
	o := New(WithGenerator(generator))

	// Selecting a persona appends an announcement without a generation call.
	if err := o.Submit(t.Context(), "①"); err != nil {
		t.Fatalf("expected trigger submission to succeed, got %v", err)
	}
	if o.Mode() != ModeReflect {
		t.Fatalf("expected mode %q after trigger, got %q", ModeReflect, o.Mode())
	}
	if generator.callCount() != 0 {
		t.Fatal("expected no generation call for a mode switch")
	}
	turns := o.Turns()
	last := turns[len(turns)-1]
	if last.Role != llms.TurnRoleAssistant || !strings.Contains(last.Content, "かんがろう") {
		t.Fatalf("expected an announcement naming the persona, got %q", last.Content)
	}
	if last.Mode != ModeReflect {
		t.Fatalf("expected the announcement tagged %q, got %q", ModeReflect, last.Mode)
	}

	// A long message is forwarded to generation within the active mode.
	message := "今日は江戸時代の農業について教科書と資料集でいろいろ調べてみました"
	if err := o.Submit(t.Context(), message); err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}
	if generator.callCount() != 1 {
		t.Fatalf("expected one generation call, got %d", generator.callCount())
	}
	call := generator.lastCall()
	if call.Prompt != message {
		t.Errorf("expected the message forwarded as prompt, got %q", call.Prompt)
	}
	if call.Options.Instructions != Instructions(ModeReflect) {
		t.Error("expected the active persona's instructions on the generation call")
	}
	turns = o.Turns()
	last = turns[len(turns)-1]
	if last.Content != generator.response || last.Mode != ModeReflect {
		t.Fatalf("expected the response tagged %q, got %q tagged %q", ModeReflect, last.Content, last.Mode)
	}

	// The reset trigger returns to the start screen with a fresh greeting,
	// keeping the log.
	turnsBefore := len(turns)
	if err := o.Submit(t.Context(), "スタート"); err != nil {
		t.Fatalf("expected reset submission to succeed, got %v", err)
	}
	if o.Mode() != ModeUnselected {
		t.Fatalf("expected mode %q after reset trigger, got %q", ModeUnselected, o.Mode())
	}
	if generator.callCount() != 1 {
		t.Fatal("expected no generation call for the reset trigger")
	}
	turns = o.Turns()
	if len(turns) != turnsBefore+2 {
		t.Fatalf("expected the log kept plus user turn and greeting, got %d turns", len(turns))
	}
	last = turns[len(turns)-1]
	if last.Content != Greeting || last.Mode != ModeUnselected {
		t.Fatalf("expected a fresh greeting, got %q tagged %q", last.Content, last.Mode)
	}
}

func TestLongMessageWithStrayTriggerIsNotASwitch(t *testing.T) {
	generator := &fakeGenerator{response: "どうしてそう思ったの?"}
	o := New(WithGenerator(generator))

	if err := o.Submit(t.Context(), "①"); err != nil {
		t.Fatal(err)
	}

	if err := o.Submit(t.Context(), "江戸時代には2回も大きなききんがあったと資料集に書いてありました"); err != nil {
		t.Fatal(err)
	}
	if o.Mode() != ModeReflect {
		t.Fatalf("expected mode to stay %q, got %q", ModeReflect, o.Mode())
	}
	if generator.callCount() != 1 {
		t.Fatalf("expected the turn forwarded to generation, got %d calls", generator.callCount())
	}
}

func TestShortTriggerSwitchesAwayFromActivePersona(t *testing.T) {
	o := New()

	if err := o.Submit(t.Context(), "②"); err != nil {
		t.Fatal(err)
	}
	if err := o.Submit(t.Context(), "③"); err != nil {
		t.Fatal(err)
	}
	if o.Mode() != ModeIdea {
		t.Fatalf("expected mode %q, got %q", ModeIdea, o.Mode())
	}
}

func TestGenerationFailureAppendsApology(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("quota exceeded")}
	o := New(WithGenerator(generator))

	if err := o.Submit(t.Context(), "①"); err != nil {
		t.Fatal(err)
	}
	if err := o.Submit(t.Context(), "大名行列はどうして行われていたのか考えてみました"); err != nil {
		t.Fatalf("expected failure to be absorbed, got %v", err)
	}

	turns := o.Turns()
	last := turns[len(turns)-1]
	if last.Content != Apology {
		t.Fatalf("expected the apology turn, got %q", last.Content)
	}
	if last.Mode != ModeUnselected {
		t.Fatalf("expected the apology tagged %q, got %q", ModeUnselected, last.Mode)
	}
	if o.Mode() != ModeReflect {
		t.Fatalf("expected mode unchanged on failure, got %q", o.Mode())
	}
	if o.IsBusy() {
		t.Fatal("expected busy flag cleared after a failed turn")
	}
}

func TestMissingGeneratorFallsBackToApology(t *testing.T) {
	o := New()

	if err := o.Submit(t.Context(), "昨日の授業でノートにまとめたことを話したいです"); err != nil {
		t.Fatal(err)
	}

	turns := o.Turns()
	if turns[len(turns)-1].Content != Apology {
		t.Fatalf("expected the apology turn, got %q", turns[len(turns)-1].Content)
	}
}

func TestSubmitRejectsTurnWhileOneIsInFlight(t *testing.T) {
	generator := &fakeGenerator{
		response: "なるほど",
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	o := New(WithGenerator(generator))

	done := make(chan error, 1)
	go func() {
		done <- o.Submit(context.Background(), "歴史上の人物について調べたことを聞いてほしいです")
	}()

	select {
	case <-generator.started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the generation call")
	}

	if err := o.Submit(t.Context(), "もう一つ質問があります"); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}

	close(generator.release)
	if err := <-done; err != nil {
		t.Fatalf("expected the first submission to succeed, got %v", err)
	}
	if o.IsBusy() {
		t.Fatal("expected busy flag cleared after the turn resolved")
	}
}

func TestResponseKeepsModeCapturedAtDispatchTime(t *testing.T) {
	generator := &fakeGenerator{
		response: "その考えのもとになった資料はどれ?",
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	o := New(WithGenerator(generator))

	if err := o.Submit(t.Context(), "①"); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- o.Submit(context.Background(), "武士の暮らしについて調べた内容をまとめてみました")
	}()

	select {
	case <-generator.started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the generation call")
	}

	// A reset while the call is outstanding must not relabel the response.
	o.Reset()
	close(generator.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if o.Mode() != ModeUnselected {
		t.Fatalf("expected mode %q after reset, got %q", ModeUnselected, o.Mode())
	}
	turns := o.Turns()
	last := turns[len(turns)-1]
	if last.Content != generator.response {
		t.Fatalf("expected the late response appended, got %q", last.Content)
	}
	if last.Mode != ModeReflect {
		t.Fatalf("expected the response tagged with the dispatch-time mode %q, got %q", ModeReflect, last.Mode)
	}
}

func TestResetClearsLogAndReseedsGreeting(t *testing.T) {
	o := New()

	if err := o.Submit(t.Context(), "②"); err != nil {
		t.Fatal(err)
	}

	o.Reset()

	if o.Mode() != ModeUnselected {
		t.Fatalf("expected mode %q, got %q", ModeUnselected, o.Mode())
	}
	turns := o.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected only the fresh greeting, got %d turns", len(turns))
	}
	if turns[0].Content != Greeting {
		t.Fatalf("expected the greeting, got %q", turns[0].Content)
	}
}

func TestGenerationHistoryExcludesThePromptTurn(t *testing.T) {
	generator := &fakeGenerator{response: "いいね、どこからそう考えたの?"}
	o := New(WithGenerator(generator))

	message := "米づくりがさかんな地域について調べたことを話します"
	if err := o.Submit(t.Context(), message); err != nil {
		t.Fatal(err)
	}

	call := generator.lastCall()
	for _, turn := range call.Options.Turns {
		if turn.Content == message {
			t.Fatal("expected the submitted text only as the prompt, not in history")
		}
	}
	if len(call.Options.Turns) != 1 || call.Options.Turns[0].Content != Greeting {
		t.Fatalf("expected the greeting as the only history turn, got %+v", call.Options.Turns)
	}
}

func TestCallbacks(t *testing.T) {
	var mu sync.Mutex
	var modeChanges [][2]Mode
	var appended []Mode

	generator := &fakeGenerator{response: "うんうん"}
	o := New(
		WithGenerator(generator),
		OnModeChanged(func(previous, current Mode) {
			mu.Lock()
			defer mu.Unlock()
			modeChanges = append(modeChanges, [2]Mode{previous, current})
		}),
		OnTurnAppended(func(role llms.TurnRole, content string, mode Mode) {
			mu.Lock()
			defer mu.Unlock()
			appended = append(appended, mode)
		}),
	)

	if err := o.Submit(t.Context(), "③"); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(modeChanges) != 1 || modeChanges[0] != [2]Mode{ModeUnselected, ModeIdea} {
		t.Fatalf("expected a single mode change to %q, got %v", ModeIdea, modeChanges)
	}
	// Seeded greeting, user turn, announcement.
	if len(appended) != 3 {
		t.Fatalf("expected turn callbacks for greeting, user turn and announcement, got %d", len(appended))
	}
}

type fakeClassifier struct {
	mode Mode
	ok   bool
	err  error

	calls int
}

func (c *fakeClassifier) Classify(ctx context.Context, text string) (Mode, bool, error) {
	c.calls++
	return c.mode, c.ok, c.err
}

func TestClassifierSwitchesModeFromStartScreen(t *testing.T) {
	classifier := &fakeClassifier{mode: ModeTraining, ok: true}
	generator := &fakeGenerator{response: "はい"}
	o := New(WithGenerator(generator), WithModeClassifier(classifier))

	if err := o.Submit(t.Context(), "大事な言葉を覚える練習がしたいな"); err != nil {
		t.Fatal(err)
	}

	if classifier.calls != 1 {
		t.Fatalf("expected one classification call, got %d", classifier.calls)
	}
	if o.Mode() != ModeTraining {
		t.Fatalf("expected mode %q, got %q", ModeTraining, o.Mode())
	}
	if generator.callCount() != 0 {
		t.Fatal("expected no generation call when the classifier switched the mode")
	}
}

func TestClassifierFailureFallsBackToGeneration(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("schema mismatch")}
	generator := &fakeGenerator{response: "なるほどね"}
	o := New(WithGenerator(generator), WithModeClassifier(classifier))

	if err := o.Submit(t.Context(), "今日の授業のことを話したいです"); err != nil {
		t.Fatal(err)
	}

	if o.Mode() != ModeUnselected {
		t.Fatalf("expected mode unchanged, got %q", o.Mode())
	}
	if generator.callCount() != 1 {
		t.Fatalf("expected the turn forwarded to generation, got %d calls", generator.callCount())
	}
}

func TestClassifierIsNotConsultedWithActivePersona(t *testing.T) {
	classifier := &fakeClassifier{mode: ModeIdea, ok: true}
	generator := &fakeGenerator{response: "ふむふむ"}
	o := New(WithGenerator(generator), WithModeClassifier(classifier))

	if err := o.Submit(t.Context(), "①"); err != nil {
		t.Fatal(err)
	}
	if err := o.Submit(t.Context(), "調べ学習の進め方について相談があります"); err != nil {
		t.Fatal(err)
	}

	if classifier.calls != 0 {
		t.Fatalf("expected no classification with an active persona, got %d calls", classifier.calls)
	}
	if o.Mode() != ModeReflect {
		t.Fatalf("expected mode %q, got %q", ModeReflect, o.Mode())
	}
}

type fakeSynthesizer struct {
	payload string
	err     error
}

func (s *fakeSynthesizer) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (string, error) {
	return s.payload, s.err
}

type fakePlayer struct {
	played chan *audio.SampleBuffer
}

func (p *fakePlayer) Play(ctx context.Context, buffer *audio.SampleBuffer) error {
	p.played <- buffer
	return nil
}

func TestResponsesAreSpoken(t *testing.T) {
	payload := audio.EncodePCM16(&audio.SampleBuffer{
		SampleRate: audio.DefaultSampleRate,
		Channels:   [][]float32{{0.25, -0.25}},
	})
	synthesizer := &fakeSynthesizer{payload: base64.StdEncoding.EncodeToString(payload)}
	player := &fakePlayer{played: make(chan *audio.SampleBuffer, 1)}
	generator := &fakeGenerator{response: "その言葉、どの資料で見つけたの?"}

	o := New(
		WithGenerator(generator),
		WithSynthesizer(synthesizer),
		WithSpeechPlayer(player),
	)

	if err := o.Submit(t.Context(), "幕府という言葉について調べてみたことを話します"); err != nil {
		t.Fatal(err)
	}

	select {
	case buffer := <-player.played:
		if buffer.SampleRate != audio.DefaultSampleRate {
			t.Fatalf("expected sample rate %d, got %d", audio.DefaultSampleRate, buffer.SampleRate)
		}
		if buffer.FrameCount() != 2 {
			t.Fatalf("expected 2 frames, got %d", buffer.FrameCount())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for playback")
	}
}

func TestEmptySynthesisPayloadIsSilentlySkipped(t *testing.T) {
	synthesizer := &fakeSynthesizer{payload: ""}
	player := &fakePlayer{played: make(chan *audio.SampleBuffer, 1)}
	generator := &fakeGenerator{response: "どんなことが気になった?"}

	o := New(
		WithGenerator(generator),
		WithSynthesizer(synthesizer),
		WithSpeechPlayer(player),
	)

	if err := o.Submit(t.Context(), "学校のまわりの土地の使われ方を調べました"); err != nil {
		t.Fatal(err)
	}

	select {
	case <-player.played:
		t.Fatal("expected no playback for an empty payload")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSpokenTextDropsFlashcardMarkup(t *testing.T) {
	got := spokenText("がんばったね！【フラッシュカード】①表：幕府 裏：武士の政府②表：大名 裏：地方の支配者")
	if got != "がんばったね！" {
		t.Fatalf("expected only the prose spoken, got %q", got)
	}
}
