package modal

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsexport/internal/domain"
	"dsexport/internal/exporttest"
	"dsexport/internal/form"
	"dsexport/internal/services/catalog"
	"dsexport/internal/services/history"
	"dsexport/internal/services/submission"
	"dsexport/internal/services/workflow"
)

func newModel(t *testing.T, svc *exporttest.Service) (*Model, *exporttest.Saver) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	rep := &exporttest.Reporter{}
	saver := &exporttest.Saver{}
	wf := workflow.New(
		"42",
		catalog.New(svc, rep, log),
		history.New(svc, rep, log, 1),
		submission.New(svc, saver, rep, log, time.Hour),
		form.New(),
		domain.AssembleConfig{AsStructured: true},
	)
	m := New(context.Background(), wf)
	m.Update(m.open())
	return m, saver
}

func formats(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
	return []domain.ExportFormat{
		{Name: "JSON", Title: "JSON", Tags: []string{"common"}},
		{Name: "CSV", Title: "CSV"},
		{Name: "TSV", Title: "TSV", Disabled: true},
	}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestOpen_ShowsFormatsAndDefaultSelection(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{ListFormatsFunc: formats})

	assert.False(t, m.loading)
	view := m.View()
	assert.Contains(t, view, "● JSON")
	assert.Contains(t, view, "○ CSV")
	assert.Contains(t, view, "[common]")
}

func TestOpen_EmptyCatalog(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{})
	assert.Contains(t, m.View(), "No export formats available.")
}

func TestSelect_DisabledFormatRefused(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{ListFormatsFunc: formats})

	m.Update(key("down"))
	m.Update(key("down"))
	m.Update(key("enter"))

	sel, _ := m.wf.Selected()
	assert.Equal(t, "JSON", sel)
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "disabled")

	m.Update(key("k"))
	m.Update(key("enter"))
	sel, _ = m.wf.Selected()
	assert.Equal(t, "CSV", sel)
}

func TestEsc_ClosesWhenIdle(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{ListFormatsFunc: formats})

	_, cmd := m.Update(key("esc"))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Closed())
}

func TestEsc_BlockedWhileExporting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &exporttest.Service{
		ListFormatsFunc: formats,
		ExportRawFunc: func(context.Context, domain.DatasetRef, domain.OptionSet) (domain.RawExport, error) {
			close(entered)
			<-release
			return domain.RawExport{Payload: []byte("[]"), Filename: "export_42.json"}, nil
		},
	}
	m, saver := newModel(t, svc)

	done := make(chan tea.Msg, 1)
	go func() { done <- m.export() }()
	<-entered

	for _, k := range []string{"esc", "q"} {
		_, cmd := m.Update(key(k))
		assert.False(t, isQuit(cmd), k)
	}
	assert.False(t, m.Closed())
	assert.Contains(t, m.status, "in progress")

	_, cmd := m.Update(key("e"))
	assert.Nil(t, cmd, "no second submission while busy")

	close(release)
	m.Update(<-done)
	assert.Len(t, saver.Saves(), 1)
	assert.Equal(t, domain.SubmissionIdle, m.state)
	assert.False(t, m.failed)

	_, cmd = m.Update(key("esc"))
	assert.True(t, isQuit(cmd))
}

func TestLongWaitNoticeRendered(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{ListFormatsFunc: formats})

	m.Update(stateMsg{state: domain.SubmissionInFlight})
	assert.NotContains(t, m.View(), submission.LongWaitNotice)

	m.Update(stateMsg{state: domain.SubmissionInFlightLong})
	assert.Contains(t, m.View(), submission.LongWaitNotice)

	m.Update(stateMsg{state: domain.SubmissionIdle})
	assert.NotContains(t, m.View(), submission.LongWaitNotice)
}

func TestExportFailureShown(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: formats,
		ExportRawFunc: func(context.Context, domain.DatasetRef, domain.OptionSet) (domain.RawExport, error) {
			return domain.RawExport{}, errors.New("connection refused")
		},
	}
	m, saver := newModel(t, svc)

	_, cmd := m.Update(key("e"))
	require.NotNil(t, cmd)
	m.Update(m.export())

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "connection refused")
	assert.Empty(t, saver.Saves())
}

func TestCtrlC_CancelsPendingExportBeforeClosing(t *testing.T) {
	entered := make(chan struct{})
	cancelled := make(chan bool, 1)
	svc := &exporttest.Service{
		ListFormatsFunc: formats,
		ExportRawFunc: func(ctx context.Context, _ domain.DatasetRef, _ domain.OptionSet) (domain.RawExport, error) {
			close(entered)
			select {
			case <-ctx.Done():
				cancelled <- true
				return domain.RawExport{}, ctx.Err()
			case <-time.After(5 * time.Second):
				cancelled <- false
				return domain.RawExport{Payload: []byte("[]"), Filename: "export_42.json"}, nil
			}
		},
	}
	m, saver := newModel(t, svc)

	done := make(chan tea.Msg, 1)
	go func() { done <- m.export() }()
	<-entered

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.False(t, isQuit(cmd), "stays open until the request returned")
	assert.False(t, m.Closed())

	assert.True(t, <-cancelled, "request context is cancelled")
	_, cmd = m.Update(<-done)
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Closed())
	assert.Equal(t, domain.SubmissionIdle, m.wf.Orchestrator().State())
	assert.Empty(t, saver.Saves())
}

func TestCtrlC_ClosesWhenIdle(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{ListFormatsFunc: formats})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Closed())
	assert.Error(t, m.ctx.Err(), "pending loads are cancelled on close")
}

func TestSaveWarningKeepsPath(t *testing.T) {
	m, _ := newModel(t, &exporttest.Service{ListFormatsFunc: formats})

	m.Update(exportedMsg{out: submission.Outcome{
		Filename: "export_42.json",
		Artifact: domain.SavedArtifact{Path: "/tmp/export_42.json"},
		SaveErr:  errors.New("recording export_42.json: disk full"),
	}})
	assert.Contains(t, m.status, "Saved /tmp/export_42.json")
	assert.Contains(t, m.status, "disk full")
	assert.NotContains(t, m.status, "not saved")

	m.Update(exportedMsg{out: submission.Outcome{SaveErr: errors.New("read-only file system")}})
	assert.Contains(t, m.status, "not saved")
}
