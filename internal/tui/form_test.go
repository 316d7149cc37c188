package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/aidline/aidline/internal/geoloc"
	"github.com/aidline/aidline/internal/request"
)

func newTestForm() FormModel {
	return NewFormModel(nil, 0)
}

// fillValidForm sets values that satisfy every validation rule
func fillValidForm(m *FormModel) {
	m.nameInput.SetValue("Jamie Soto")
	m.phoneInput.SetValue("07700900123")
	m.typeSelected = 0
	m.locationInput.SetValue("Carrer de Mallorca 401")
}

// tabTo presses tab until the Submit button has focus
func tabToSubmit(m FormModel) FormModel {
	for m.focusedIndex != buttonsFocused {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	return m
}

// --- Focus cycling ---

func TestFocusCycling_Forward(t *testing.T) {
	m := newTestForm()

	require.Equal(t, fieldName, m.focusedIndex)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldPhone, m.focusedIndex)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldType, m.focusedIndex)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldLocation, m.focusedIndex)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldDescription, m.focusedIndex)

	// Tab moves to the submit button
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, buttonsFocused, m.focusedIndex, "expected buttons focus")
	require.Equal(t, buttonSubmit, m.focusedButton)

	// Then to cancel
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, buttonCancel, m.focusedButton)

	// Then wraps back to the first field
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldName, m.focusedIndex, "expected wrap to first field")
}

func TestFocusCycling_Reverse(t *testing.T) {
	m := newTestForm()

	// Shift+tab from the first field wraps to the cancel button
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, buttonsFocused, m.focusedIndex, "expected buttons focus")
	require.Equal(t, buttonCancel, m.focusedButton)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, buttonSubmit, m.focusedButton)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, fieldDescription, m.focusedIndex)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, fieldLocation, m.focusedIndex)
}

func TestFocusCycling_EnterAdvancesTextField(t *testing.T) {
	m := newTestForm()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, fieldPhone, m.focusedIndex)
}

func TestFocusCycling_ButtonNavigation(t *testing.T) {
	m := tabToSubmit(newTestForm())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, buttonCancel, m.focusedButton, "after right")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, buttonSubmit, m.focusedButton, "after left")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, buttonCancel, m.focusedButton, "after 'l'")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	require.Equal(t, buttonSubmit, m.focusedButton, "after 'h'")
}

// --- Cancel ---

func TestEsc_SendsCancelMsg(t *testing.T) {
	m := newTestForm()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd, "expected cancel command")
	_, ok := cmd().(CancelMsg)
	require.True(t, ok, "expected CancelMsg")
}

func TestCancelButton_SendsCancelMsg(t *testing.T) {
	m := tabToSubmit(newTestForm())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight}) // to cancel

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "expected cancel command")
	_, ok := cmd().(CancelMsg)
	require.True(t, ok, "expected CancelMsg")
}

// --- Emergency type selector ---

func TestTypeSelector_Navigation(t *testing.T) {
	m := newTestForm()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldType, m.focusedIndex)

	require.Equal(t, 0, m.typeCursor)
	require.Equal(t, -1, m.typeSelected, "nothing selected initially")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.typeCursor)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Equal(t, 2, m.typeCursor, "after 'j'")

	// Space selects without moving focus
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, 2, m.typeSelected)
	require.Equal(t, fieldType, m.focusedIndex)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.Equal(t, 1, m.typeCursor, "after 'k'")

	// Enter selects the highlighted option and advances focus
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, m.typeSelected)
	require.Equal(t, fieldLocation, m.focusedIndex)
}

func TestTypeSelector_CursorBounds(t *testing.T) {
	m := newTestForm()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, m.typeCursor, "cursor stays at top")

	for range request.EmergencyTypes {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, len(request.EmergencyTypes)-1, m.typeCursor, "cursor stays at bottom")
}

// --- Submit ---

func TestSubmit_InvalidDraft_NoSideEffects(t *testing.T) {
	m := tabToSubmit(newTestForm())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "invalid submit must emit nothing")

	// Every required field is flagged inline
	require.Contains(t, m.fieldErrors, request.FieldName)
	require.Contains(t, m.fieldErrors, request.FieldPhone)
	require.Contains(t, m.fieldErrors, request.FieldEmergencyType)
	require.Contains(t, m.fieldErrors, request.FieldLocation)
	require.NotContains(t, m.fieldErrors, request.FieldDescription, "description is optional")
}

func TestSubmit_PartiallyInvalidDraft(t *testing.T) {
	m := newTestForm()
	fillValidForm(&m)
	m.phoneInput.SetValue("555") // Too short

	m = tabToSubmit(m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Contains(t, m.fieldErrors, request.FieldPhone)
	require.NotContains(t, m.fieldErrors, request.FieldName)
}

func TestSubmit_ValidDraft_EmitsSubmitMsgOnce(t *testing.T) {
	m := newTestForm()
	fillValidForm(&m)
	m.descriptionInput.SetValue("Chest pain, conscious")

	m = tabToSubmit(m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "expected submit command")
	require.Empty(t, m.fieldErrors)

	msg := cmd()
	submitMsg, ok := msg.(SubmitMsg)
	require.True(t, ok, "expected SubmitMsg, got %T", msg)

	require.Equal(t, "Jamie Soto", submitMsg.Draft.Name)
	require.Equal(t, "07700900123", submitMsg.Draft.Phone)
	require.Equal(t, string(request.EmergencyTypes[0]), submitMsg.Draft.EmergencyType)
	require.Equal(t, "Carrer de Mallorca 401", submitMsg.Draft.Location)
	require.Equal(t, "Chest pain, conscious", submitMsg.Draft.Description)
}

func TestSubmit_ErrorsClearedOnValidResubmit(t *testing.T) {
	m := tabToSubmit(newTestForm())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotEmpty(t, m.fieldErrors)

	fillValidForm(&m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Empty(t, m.fieldErrors)
}

// --- Location helper ---

func TestLocationResult_Success_SetsField(t *testing.T) {
	m := newTestForm()

	m, _ = m.Update(locationResultMsg{coords: geoloc.Coordinates{Lat: 41.3874, Lon: 2.1686}})

	require.Equal(t, "41.3874, 2.1686", m.locationInput.Value())
	require.Empty(t, m.locateNotice)
	require.False(t, m.locating)
}

func TestLocationResult_Failure_LeavesFieldUnchanged(t *testing.T) {
	m := newTestForm()
	m.locationInput.SetValue("Carrer de Mallorca 401")

	m, _ = m.Update(locationResultMsg{err: errors.New("service unreachable")})

	require.Equal(t, "Carrer de Mallorca 401", m.locationInput.Value())
	require.Contains(t, m.locateNotice, "service unreachable")
	require.False(t, m.locating)
}

func TestLocationHelper_InertWithoutLocator(t *testing.T) {
	m := newTestForm() // nil locator

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	require.Nil(t, cmd)
	require.False(t, m.locating)
}

func TestLocationHelper_StartsLookup(t *testing.T) {
	m := NewFormModel(geoloc.New(""), 0)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	require.NotNil(t, cmd, "expected lookup command")
	require.True(t, m.locating)

	// A second press while a lookup is in flight is ignored
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	require.Nil(t, cmd)
}

// --- Reset and prefill ---

func TestReset_ClearsDraft(t *testing.T) {
	m := newTestForm()
	fillValidForm(&m)
	m.descriptionInput.SetValue("details")
	m.fieldErrors = map[string]string{request.FieldName: "x"}
	m.locateNotice = "stale"
	m = tabToSubmit(m)

	m.Reset()

	draft := m.Draft()
	require.True(t, draft.IsEmpty())
	require.Equal(t, -1, m.typeSelected)
	require.Empty(t, m.fieldErrors)
	require.Empty(t, m.locateNotice)
	require.Equal(t, fieldName, m.focusedIndex)
}

func TestPrefill_OnlyFillsBlankFields(t *testing.T) {
	m := newTestForm()
	m.Prefill("Jamie Soto", "07700900123")

	require.Equal(t, "Jamie Soto", m.nameInput.Value())
	require.Equal(t, "07700900123", m.phoneInput.Value())

	// A later prefill never clobbers user edits
	m.nameInput.SetValue("Alex Riera")
	m.Prefill("Jamie Soto", "0000000000")
	require.Equal(t, "Alex Riera", m.nameInput.Value())
	require.Equal(t, "07700900123", m.phoneInput.Value())
}

// --- Text entry ---

func TestTextEntry_RoutesToFocusedField(t *testing.T) {
	m := newTestForm()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Jamie")})
	require.Equal(t, "Jamie", m.nameInput.Value())
	require.Empty(t, m.phoneInput.Value())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("077")})
	require.Equal(t, "077", m.phoneInput.Value())
	require.Equal(t, "Jamie", m.nameInput.Value())
}
