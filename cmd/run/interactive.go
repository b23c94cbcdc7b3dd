package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/lua-bridge/errors"
	"github.com/wippyai/lua-bridge/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D7D9A")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	tracebackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type replEntry struct {
	source string
	output string
	failed bool
}

type replModel struct {
	rt      *runtime.Runtime
	cfg     runtime.Config
	err     error
	input   textinput.Model
	history []replEntry
	busy    bool
}

type readyMsg struct {
	err error
	rt  *runtime.Runtime
}

type evalDoneMsg struct {
	entry replEntry
}

func newReplModel(cfg runtime.Config) *replModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("lua> ")
	ti.Placeholder = "1 + 2"
	ti.Width = 72
	ti.Focus()
	return &replModel{cfg: cfg, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return m.start
}

func (m *replModel) start() tea.Msg {
	rt, err := runtime.New(m.cfg)
	return readyMsg{rt: rt, err: err}
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			if m.rt != nil {
				m.rt.Close()
			}
			return m, tea.Quit

		case "enter":
			source := strings.TrimSpace(m.input.Value())
			if source == "" || m.busy || m.rt == nil {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			return m, m.eval(source)
		}

	case readyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.rt = msg.rt

	case evalDoneMsg:
		m.busy = false
		m.history = append(m.history, msg.entry)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) eval(source string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.rt.Eval(context.Background(), source)
		entry := replEntry{source: source}
		if err != nil {
			entry.failed = true
			entry.output = formatError(err)
		} else {
			entry.output = fmt.Sprintf("%v", result)
		}
		return evalDoneMsg{entry: entry}
	}
}

func formatError(err error) string {
	if msg, tb, ok := errors.Diagnostic(err); ok {
		if tb != "" {
			return msg + "\n" + tracebackStyle.Render(tb)
		}
		return msg
	}
	return err.Error()
}

func (m *replModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err))
	}
	if m.rt == nil {
		return "Starting interpreter..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Lua Bridge"))
	b.WriteString("\n\n")

	for _, entry := range m.history {
		b.WriteString(promptStyle.Render("lua> "))
		b.WriteString(entry.source)
		b.WriteString("\n")
		if entry.failed {
			b.WriteString(errorStyle.Render(entry.output))
		} else {
			b.WriteString(resultStyle.Render(entry.output))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter evaluate • ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func runInteractive(cfg runtime.Config) error {
	m := newReplModel(cfg)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}
