// Package tui provides a Bubble Tea terminal form for vidmaker: three
// inputs (clips, watermark, audio) and a start action that stays blocked
// until all three are filled.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/vidmaker/internal/pipeline"
	"github.com/backmassage/vidmaker/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C77DFF")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFE66D"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#95E1A3")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateProcessing
	StateComplete
	StateError
)

// Input field indexes, in focus order.
const (
	fieldVideos = iota
	fieldWatermark
	fieldAudio
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldVideos:    "Video files (comma-separated, in order):",
	fieldWatermark: "Watermark image:",
	fieldAudio:     "Audio file:",
}

// RunFunc starts one pipeline run; (*pipeline.Orchestrator).Run in production.
type RunFunc func(ctx context.Context, s *session.Session) (*pipeline.Result, error)

// Message types
type (
	// EventMsg carries one pipeline transition.
	EventMsg struct{ Event pipeline.Event }

	// DoneMsg is sent when the run returns.
	DoneMsg struct {
		Result *pipeline.Result
		Err    error
	}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state   State
	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model

	run    RunFunc
	events <-chan pipeline.Event
	sess   *session.Session

	ctx    context.Context
	cancel context.CancelFunc

	// runID is adopted from the first START event of the active run;
	// prevRunID is the last finished run, whose late events are dropped.
	runID     string
	prevRunID string
	quitting  bool

	current pipeline.State
	warning string
	final   string
	err     error
}

// NewModel creates the form. events may be nil; when set it must be fed
// by the orchestrator's observer.
func NewModel(run RunFunc, events <-chan pipeline.Event) Model {
	var inputs [fieldCount]textinput.Model
	placeholders := [fieldCount]string{"intro.mp4, main.mov", "logo.png", "song.mp3"}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 2000
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[fieldVideos].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C77DFF"))

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		state:   StateInput,
		inputs:  inputs,
		spinner: sp,
		run:     run,
		events:  events,
		sess:    &session.Session{},
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Init initializes the model. A single event listener runs for the
// lifetime of the program.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Session returns the input set built from the form fields.
func (m Model) Session() *session.Session {
	return &session.Session{
		Videos:    session.ParseList(m.inputs[fieldVideos].Value()),
		Watermark: strings.TrimSpace(m.inputs[fieldWatermark].Value()),
		Audio:     strings.TrimSpace(m.inputs[fieldAudio].Value()),
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			if m.state == StateProcessing {
				// Quit once the run has swept its intermediates.
				m.quitting = true
				return m, nil
			}
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateProcessing:
				m.cancel()
			}
			return m, nil

		case "tab", "down":
			if m.state == StateInput {
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}

		case "shift+tab", "up":
			if m.state == StateInput {
				m.setFocus((m.focus + fieldCount - 1) % fieldCount)
				return m, nil
			}

		case "enter":
			if m.state == StateInput {
				if m.focus < fieldCount-1 {
					m.setFocus(m.focus + 1)
					return m, nil
				}
				return m.start()
			}

		case "ctrl+s":
			if m.state == StateInput {
				return m.start()
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.err = nil
				m.final = ""
				m.warning = ""
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.setFocus(fieldVideos)
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		if m.ownsEvent(msg.Event) {
			m.current = msg.Event.State
		}
		cmds = append(cmds, m.waitForEvent())

	case DoneMsg:
		if msg.Result != nil {
			m.prevRunID = msg.Result.RunID
		}
		m.runID = ""
		if m.quitting {
			return m, tea.Quit
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			if errors.Is(msg.Err, context.Canceled) {
				m.err = fmt.Errorf("cancelled by user")
			}
		} else {
			m.state = StateComplete
			if msg.Result != nil {
				m.final = msg.Result.FinalPath
			}
		}
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// ownsEvent reports whether ev belongs to the run in progress. Events
// buffered from an earlier run are dropped.
func (m *Model) ownsEvent(ev pipeline.Event) bool {
	if m.state != StateProcessing || ev.RunID == m.prevRunID {
		return false
	}
	if m.runID == "" {
		if ev.State != pipeline.StateStart {
			return false
		}
		m.runID = ev.RunID
	}
	return ev.RunID == m.runID
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// start begins a run, or leaves a warning when an input is missing.
func (m Model) start() (tea.Model, tea.Cmd) {
	s := m.Session()
	if !s.Ready() {
		m.warning = "Please select all files before starting the process (missing: " +
			strings.Join(s.Missing(), ", ") + ")"
		return m, nil
	}
	m.warning = ""
	m.sess = s
	m.state = StateProcessing
	m.current = pipeline.StateStart
	m.runID = ""
	return m, tea.Batch(m.startRun(), m.spinner.Tick)
}

// startRun runs the pipeline in the background.
func (m Model) startRun() tea.Cmd {
	ctx, run, s := m.ctx, m.run, m.sess
	return func() tea.Msg {
		res, err := run(ctx, s)
		return DoneMsg{Result: res, Err: err}
	}
}

// waitForEvent delivers the next pipeline transition, if any.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vidmaker"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Merge clips, watermark, add a soundtrack"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(boxStyle.Render(successStyle.Render("Done") + "\n\n" +
			"The final video has been saved as " + m.final))
		b.WriteString("\n")
	case StateError:
		b.WriteString(errorStyle.Render("Error occurred:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString("  " + m.err.Error())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder
	for i := range m.inputs {
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}
	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}
	return b.String()
}

var stageLabels = map[pipeline.State]string{
	pipeline.StateStart:             "Starting",
	pipeline.StateCleanStale:        "Removing stale files",
	pipeline.StateMerge:             "Merging clips",
	pipeline.StateWatermark:         "Adding watermark",
	pipeline.StateMixAudio:          "Adding audio",
	pipeline.StateCleanIntermediate: "Cleaning up",
	pipeline.StateDone:              "Finishing",
	pipeline.StateFailed:            "Cleaning up after failure",
}

func (m Model) viewProcessing() string {
	var b strings.Builder
	label := stageLabels[m.current]
	if m.quitting {
		label = "Cancelling, removing intermediate files"
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(labelStyle.Render(label + "..."))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d clip(s) · %s · %s",
		len(m.sess.Videos), m.sess.Watermark, m.sess.Audio)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "tab: next field • enter: next/start • ctrl+s: start • esc: quit"
	case StateProcessing:
		return "esc: cancel • ctrl+c: cancel and quit"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(run RunFunc, events <-chan pipeline.Event) error {
	p := tea.NewProgram(NewModel(run, events), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
