package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/aidline/aidline/internal/config"
	"github.com/aidline/aidline/internal/dispatch"
	"github.com/aidline/aidline/internal/request"
)

func newTestApp() AppModel {
	return NewAppModel(dispatch.NewClient(""), config.NewRegistry())
}

func validDraft() request.Draft {
	return request.Draft{
		Name:          "Jamie Soto",
		Phone:         "07700900123",
		EmergencyType: string(request.EmergencyTypes[0]),
		Location:      "Carrer de Mallorca 401",
	}
}

// asApp unwraps the tea.Model returned by Update
func asApp(t *testing.T, m tea.Model) AppModel {
	t.Helper()
	app, ok := m.(AppModel)
	require.True(t, ok, "expected AppModel, got %T", m)
	return app
}

func TestApp_OpenForm(t *testing.T) {
	m := newTestApp()
	require.False(t, m.ShowingForm)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	app := asApp(t, updated)

	require.True(t, app.ShowingForm)
	draft := app.Form.Draft()
	require.True(t, draft.IsEmpty(), "form opens with an empty draft")
}

func TestApp_OpenForm_PrefillsFromProfile(t *testing.T) {
	registry := config.NewRegistry()
	registry.SetProfile("Jamie Soto", "07700900123")
	m := NewAppModel(dispatch.NewClient(""), registry)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	app := asApp(t, updated)

	draft := app.Form.Draft()
	require.Equal(t, "Jamie Soto", draft.Name)
	require.Equal(t, "07700900123", draft.Phone)
}

func TestApp_CtrlC_Quits(t *testing.T) {
	m := newTestApp()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok, "expected QuitMsg")
}

func TestApp_SubmitMsg_ShowsProgress(t *testing.T) {
	m := newTestApp()
	m.ShowingForm = true

	updated, cmd := m.Update(SubmitMsg{Draft: validDraft()})
	app := asApp(t, updated)

	require.True(t, app.ShowingProgress)
	require.NotNil(t, cmd, "expected spinner tick and submit command")
}

func TestApp_ProgressModal_BlocksInput(t *testing.T) {
	m := newTestApp()
	m.ShowingForm = true
	m.ShowingProgress = true

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	app := asApp(t, updated)

	require.True(t, app.ShowingProgress, "progress modal stays up")
	require.Nil(t, cmd)
}

func TestApp_SubmitComplete_Success(t *testing.T) {
	m := newTestApp()
	m.ShowingForm = true
	m.ShowingProgress = true
	fillValidForm(&m.Form)

	receipt := &dispatch.Receipt{ID: "f4b7", ETAMinutes: 8, Simulated: true}
	updated, _ := m.Update(submitCompleteMsg{receipt: receipt})
	app := asApp(t, updated)

	require.False(t, app.ShowingProgress)
	require.True(t, app.ShowingSuccess)
	require.False(t, app.ShowingForm, "success closes the form")
	draft := app.Form.Draft()
	require.True(t, draft.IsEmpty(), "success resets the draft")
	require.Equal(t, receipt, app.LastReceipt)
}

func TestApp_SubmitComplete_Failure(t *testing.T) {
	m := newTestApp()
	m.ShowingForm = true
	m.ShowingProgress = true
	fillValidForm(&m.Form)

	submitErr := errors.New("dispatch unreachable")
	updated, _ := m.Update(submitCompleteMsg{err: submitErr})
	app := asApp(t, updated)

	require.False(t, app.ShowingProgress)
	require.True(t, app.ShowingFailure)
	require.True(t, app.ShowingForm, "failure keeps the form open")
	require.Equal(t, submitErr, app.SubmitError)

	draft := app.Form.Draft()
	require.Equal(t, "Jamie Soto", draft.Name, "failure preserves the draft")
}

func TestApp_FailureDismiss_ReturnsToForm(t *testing.T) {
	m := newTestApp()
	m.ShowingForm = true
	m.ShowingFailure = true

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app := asApp(t, updated)

	require.False(t, app.ShowingFailure)
	require.True(t, app.ShowingForm)
}

func TestApp_SuccessDismiss_ReturnsHome(t *testing.T) {
	m := newTestApp()
	m.ShowingSuccess = true
	m.LastReceipt = &dispatch.Receipt{ID: "f4b7"}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app := asApp(t, updated)

	require.False(t, app.ShowingSuccess)
	require.False(t, app.ShowingForm)
	require.NotNil(t, app.LastReceipt, "receipt stays on the home screen")
}

func TestApp_CancelMsg_ClosesAndResets(t *testing.T) {
	m := newTestApp()
	m.ShowingForm = true
	fillValidForm(&m.Form)

	updated, _ := m.Update(CancelMsg{})
	app := asApp(t, updated)

	require.False(t, app.ShowingForm)
	draft := app.Form.Draft()
	require.True(t, draft.IsEmpty(), "cancel discards the draft")
}

func TestApp_FallbackPhone(t *testing.T) {
	m := newTestApp()
	require.Equal(t, config.DefaultFallbackPhone, m.fallbackPhone())

	m.Registry.Preferences.FallbackPhone = "999"
	require.Equal(t, "999", m.fallbackPhone())
}
