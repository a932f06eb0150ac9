package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/backmassage/vidmaker/internal/pipeline"
	"github.com/backmassage/vidmaker/internal/session"
)

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func noRun(t *testing.T) RunFunc {
	return func(ctx context.Context, s *session.Session) (*pipeline.Result, error) {
		t.Error("run should not be called")
		return nil, nil
	}
}

func fill(m Model, videos, wm, audio string) Model {
	m.inputs[fieldVideos].SetValue(videos)
	m.inputs[fieldWatermark].SetValue(wm)
	m.inputs[fieldAudio].SetValue(audio)
	return m
}

func TestFocusCycle(t *testing.T) {
	m := NewModel(noRun(t), nil)
	m, _ = press(t, m, tea.KeyTab)
	if m.focus != fieldWatermark {
		t.Errorf("focus = %d after tab, want %d", m.focus, fieldWatermark)
	}
	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyTab)
	if m.focus != fieldVideos {
		t.Errorf("focus = %d, want wrap to %d", m.focus, fieldVideos)
	}
	m, _ = press(t, m, tea.KeyShiftTab)
	if m.focus != fieldAudio {
		t.Errorf("focus = %d after shift+tab, want %d", m.focus, fieldAudio)
	}
}

func TestStartBlockedUntilComplete(t *testing.T) {
	tests := []struct {
		name              string
		videos, wm, audio string
	}{
		{"all empty", "", "", ""},
		{"no audio", "a.mp4", "logo.png", ""},
		{"no watermark", "a.mp4", "", "song.mp3"},
		{"blank videos", " , ", "logo.png", "song.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fill(NewModel(noRun(t), nil), tt.videos, tt.wm, tt.audio)
			m.setFocus(fieldAudio)
			m, _ = press(t, m, tea.KeyEnter)
			if m.state != StateInput {
				t.Errorf("state = %d, want StateInput", m.state)
			}
			if !strings.Contains(m.warning, "Please select all files before starting the process") {
				t.Errorf("warning = %q", m.warning)
			}
		})
	}
}

func TestEnterAdvancesThenStarts(t *testing.T) {
	var got *session.Session
	run := func(ctx context.Context, s *session.Session) (*pipeline.Result, error) {
		got = s
		return &pipeline.Result{FinalPath: "vidmaker_20240102_030405.mp4"}, nil
	}
	m := fill(NewModel(run, nil), "b.mp4, a.mp4", "logo.png", "song.mp3")

	m, _ = press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter)
	if m.state != StateInput || m.focus != fieldAudio {
		t.Fatalf("state=%d focus=%d, want input on audio field", m.state, m.focus)
	}
	m, cmd := press(t, m, tea.KeyEnter)
	if m.state != StateProcessing || cmd == nil {
		t.Fatalf("state = %d, want StateProcessing with a command", m.state)
	}

	msg := m.startRun()()
	done, ok := msg.(DoneMsg)
	if !ok {
		t.Fatalf("startRun message = %T", msg)
	}
	if got == nil || len(got.Videos) != 2 || got.Videos[0] != "b.mp4" || got.Audio != "song.mp3" {
		t.Errorf("session = %+v", got)
	}

	next, _ := m.Update(done)
	m = next.(Model)
	if m.state != StateComplete || !strings.Contains(m.View(), "vidmaker_20240102_030405.mp4") {
		t.Errorf("state = %d, view:\n%s", m.state, m.View())
	}
}

func send(m Model, ev pipeline.Event) (Model, tea.Cmd) {
	next, cmd := m.Update(EventMsg{Event: ev})
	return next.(Model), cmd
}

func TestEventsTrackStage(t *testing.T) {
	events := make(chan pipeline.Event, 1)
	m := NewModel(noRun(t), events)
	m.state = StateProcessing

	m, _ = send(m, pipeline.Event{RunID: "run-a", State: pipeline.StateStart})
	m, cmd := send(m, pipeline.Event{RunID: "run-a", State: pipeline.StateWatermark})
	if m.current != pipeline.StateWatermark {
		t.Errorf("current = %s", m.current)
	}
	if cmd == nil {
		t.Error("listener should keep running after an event")
	}
	if !strings.Contains(m.View(), "Adding watermark") {
		t.Errorf("view:\n%s", m.View())
	}

	events <- pipeline.Event{State: pipeline.StateMixAudio}
	if msg := m.waitForEvent()(); msg.(EventMsg).Event.State != pipeline.StateMixAudio {
		t.Errorf("waitForEvent = %+v", msg)
	}
}

func TestEventsFromFinishedRunIgnored(t *testing.T) {
	m := fill(NewModel(func(ctx context.Context, s *session.Session) (*pipeline.Result, error) {
		return nil, nil
	}, make(chan pipeline.Event)), "a.mp4", "logo.png", "song.mp3")
	m.setFocus(fieldAudio)

	// Run A fails fast: DoneMsg lands before its events are read.
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = send(m, pipeline.Event{RunID: "run-a", State: pipeline.StateStart})
	next, _ := m.Update(DoneMsg{Result: &pipeline.Result{RunID: "run-a"}, Err: errors.New("merge failed")})
	m = next.(Model)
	m, _ = send(m, pipeline.Event{RunID: "run-a", State: pipeline.StateMerge})

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	m.setFocus(fieldAudio)
	m, _ = press(t, m, tea.KeyEnter)
	if m.state != StateProcessing {
		t.Fatalf("state = %d, want StateProcessing", m.state)
	}

	for _, ev := range []pipeline.Event{
		{RunID: "run-a", State: pipeline.StateCleanStale},
		{RunID: "run-a", State: pipeline.StateFailed},
		{RunID: "run-b", State: pipeline.StateStart},
		{RunID: "run-b", State: pipeline.StateMerge},
		{RunID: "run-a", State: pipeline.StateFailed},
	} {
		var cmd tea.Cmd
		m, cmd = send(m, ev)
		if cmd == nil {
			t.Fatalf("listener stopped after %s from %s", ev.State, ev.RunID)
		}
	}
	if m.current != pipeline.StateMerge || m.runID != "run-b" {
		t.Errorf("current = %s run = %q, want MERGE of run-b", m.current, m.runID)
	}
}

func TestCtrlCWaitsForRunToFinish(t *testing.T) {
	m := NewModel(noRun(t), nil)
	m.state = StateProcessing

	m, cmd := press(t, m, tea.KeyCtrlC)
	if cmd != nil {
		t.Error("ctrl+c while processing should not quit before the run returns")
	}
	if !m.quitting || m.ctx.Err() == nil {
		t.Errorf("quitting = %v ctx err = %v, want cancelled and quitting", m.quitting, m.ctx.Err())
	}
	if !strings.Contains(m.View(), "Cancelling") {
		t.Errorf("view:\n%s", m.View())
	}

	next, cmd := m.Update(DoneMsg{Err: context.Canceled})
	if cmd == nil {
		t.Fatal("DoneMsg after ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("DoneMsg command = %T, want tea.QuitMsg", cmd())
	}
	_ = next
}

func TestCtrlCQuitsFromForm(t *testing.T) {
	m := NewModel(noRun(t), nil)
	_, cmd := press(t, m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatal("ctrl+c on the form should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("command = %T, want tea.QuitMsg", cmd())
	}
}

func TestDoneWithError(t *testing.T) {
	m := NewModel(noRun(t), nil)
	m.state = StateProcessing

	next, _ := m.Update(DoneMsg{Err: errors.New("watermark failed: watermark image unreadable")})
	m = next.(Model)
	if m.state != StateError || !strings.Contains(m.View(), "watermark image unreadable") {
		t.Errorf("state = %d, view:\n%s", m.state, m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	if m.state != StateInput || m.err != nil {
		t.Errorf("r should reset to the form, state = %d", m.state)
	}
}
