package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	dialogue "github.com/usakkolabs/usakko-core/core"
	"github.com/usakkolabs/usakko-core/core/content"
	"github.com/usakkolabs/usakko-core/core/llms"
)

type styles struct {
	title    lipgloss.Style
	user     lipgloss.Style
	narrator lipgloss.Style
	latest   lipgloss.Style
	card     lipgloss.Style
	cardSide lipgloss.Style
	help     lipgloss.Style
	errText  lipgloss.Style
}

func newStyles() *styles {
	return &styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		user:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		narrator: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		latest:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 1),
		cardSide: lipgloss.NewStyle().Bold(true),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// personaStyle colors a persona label with its accent color.
func (s *styles) personaStyle(mode dialogue.Mode) lipgloss.Style {
	if profile, ok := dialogue.Persona(mode); ok {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(profile.Accent))
	}
	return s.narrator
}

type turnResolvedMsg struct {
	err error
}

type model struct {
	orchestrator *dialogue.Orchestrator

	textarea textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   *styles

	busy   bool
	ready  bool
	errMsg string

	width  int
	height int
}

func newModel(orchestrator *dialogue.Orchestrator) model {
	ta := textarea.New()
	ta.Placeholder = "メッセージを書いてね (Enterで送信)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		orchestrator: orchestrator,
		textarea:     ta,
		spinner:      sp,
		styles:       newStyles(),
		width:        80,
		height:       24,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) submit(text string) tea.Cmd {
	return func() tea.Msg {
		return turnResolvedMsg{err: m.orchestrator.Submit(context.Background(), text)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		footerHeight := m.textarea.Height() + 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}
		m.textarea.SetWidth(msg.Width - 2)
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlR:
			if !m.busy {
				m.orchestrator.Reset()
				m.errMsg = ""
				m.viewport.SetContent(m.renderConversation())
				m.viewport.GotoBottom()
			}
			return m, nil

		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.busy = true
			m.errMsg = ""
			return m, tea.Batch(m.spinner.Tick, m.submit(text))
		}

		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case turnResolvedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	var footer strings.Builder
	if m.busy {
		footer.WriteString(m.spinner.View() + " 考え中...\n")
	} else {
		footer.WriteString(m.textarea.View() + "\n")
	}
	if m.errMsg != "" {
		footer.WriteString(m.styles.errText.Render(m.errMsg) + "\n")
	}
	footer.WriteString(m.styles.help.Render("enter: 送信 · ctrl+r: さいしょから · esc: 終了"))

	return fmt.Sprintf("%s\n%s\n%s", m.headerView(), m.viewport.View(), footer.String())
}

func (m model) headerView() string {
	title := m.styles.title.Render("うさっこ三兄弟")

	mode := m.orchestrator.Mode()
	badge := "モード未選択"
	if profile, ok := dialogue.Persona(mode); ok {
		badge = profile.Name
	}
	return title + "  " + m.styles.personaStyle(mode).Render(badge)
}

func (m model) renderConversation() string {
	turns := m.orchestrator.Turns()
	wrapWidth := m.viewport.Width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTurn(turn, wrapWidth, i == len(turns)-1))
	}
	return b.String()
}

func (m model) renderTurn(turn dialogue.Turn, wrapWidth int, latest bool) string {
	var label string
	if turn.Role == llms.TurnRoleUser {
		label = m.styles.user.Render("あなた")
	} else if profile, ok := dialogue.Persona(turn.Mode); ok {
		label = m.styles.personaStyle(turn.Mode).Render(profile.Name)
	} else {
		label = m.styles.narrator.Render("うさっこ三兄弟")
	}
	if latest {
		label = m.styles.latest.Render("▌") + label
	}

	var b strings.Builder
	b.WriteString(label + "\n")
	for _, block := range content.Parse(turn.Content) {
		switch block := block.(type) {
		case content.Prose:
			b.WriteString(wordwrap.String(block.Text, wrapWidth) + "\n")
		case content.Flashcard:
			card := m.styles.cardSide.Render("表 ") + block.Front + "\n" +
				m.styles.cardSide.Render("裏 ") + block.Back
			b.WriteString(m.styles.card.Render(wordwrap.String(card, wrapWidth)) + "\n")
		}
	}
	return b.String()
}
