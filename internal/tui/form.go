package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aidline/aidline/internal/geoloc"
	"github.com/aidline/aidline/internal/request"
)

// SubmitMsg is emitted when the form passes validation and the user confirms
// submission. The draft carries everything the dispatch client needs.
type SubmitMsg struct {
	Draft request.Draft
}

// CancelMsg is emitted when the user dismisses the form without submitting.
type CancelMsg struct{}

// locationResultMsg carries the outcome of an asynchronous coordinate lookup
type locationResultMsg struct {
	coords geoloc.Coordinates
	err    error
}

// Form field indices (focus order)
const (
	fieldName = iota
	fieldPhone
	fieldType
	fieldLocation
	fieldDescription
	fieldCount
)

// Button indices when focusedIndex == buttonsFocused
const (
	buttonSubmit = 0
	buttonCancel = 1
)

// buttonsFocused is the sentinel focusedIndex value meaning the Submit/Cancel
// row has focus rather than a field
const buttonsFocused = -1

// FormModel is the modal request form. It owns the in-progress draft state:
// three text inputs, the emergency type selector, and the optional
// description. Validation runs only at submit; an invalid submit sets inline
// errors and emits nothing.
type FormModel struct {
	// Text inputs (name, phone, location, description)
	nameInput        textinput.Model
	phoneInput       textinput.Model
	locationInput    textinput.Model
	descriptionInput textinput.Model

	// Emergency type selector state
	typeCursor   int // Highlighted option
	typeSelected int // Chosen option, -1 when none picked yet

	// Focus state
	focusedIndex  int // 0..fieldCount-1, or buttonsFocused
	focusedButton int // buttonSubmit or buttonCancel

	// Per-field validation errors, keyed by request field name.
	// Populated only by a failed submit, cleared by the next submit.
	fieldErrors map[string]string

	// Location helper state
	locator       *geoloc.Locator
	locateTimeout time.Duration
	locating      bool
	locateNotice  string // Error notification when a lookup fails

	// Layout
	Width int
}

// NewFormModel creates an empty request form. The locator may be nil, in
// which case the location helper key is inert.
func NewFormModel(locator *geoloc.Locator, locateTimeout time.Duration) FormModel {
	nameInput := textinput.New()
	nameInput.Placeholder = "Full name"
	nameInput.CharLimit = 100
	nameInput.Width = 44
	nameInput.Focus()

	phoneInput := textinput.New()
	phoneInput.Placeholder = "Callback number"
	phoneInput.CharLimit = 20
	phoneInput.Width = 44

	locationInput := textinput.New()
	locationInput.Placeholder = "Street address or coordinates"
	locationInput.CharLimit = 200
	locationInput.Width = 44

	descriptionInput := textinput.New()
	descriptionInput.Placeholder = "What happened? (optional)"
	descriptionInput.CharLimit = 500
	descriptionInput.Width = 44

	if locateTimeout <= 0 {
		locateTimeout = geoloc.DefaultTimeout
	}

	return FormModel{
		nameInput:        nameInput,
		phoneInput:       phoneInput,
		locationInput:    locationInput,
		descriptionInput: descriptionInput,
		typeCursor:       0,
		typeSelected:     -1,
		focusedIndex:     fieldName,
		focusedButton:    buttonSubmit,
		locator:          locator,
		locateTimeout:    locateTimeout,
		Width:            ModalWidth,
	}
}

// Prefill seeds the name and phone fields from the saved caller profile.
// Only blank fields are filled so user edits are never clobbered.
func (m *FormModel) Prefill(name, phone string) {
	if m.nameInput.Value() == "" && name != "" {
		m.nameInput.SetValue(name)
	}
	if m.phoneInput.Value() == "" && phone != "" {
		m.phoneInput.SetValue(phone)
	}
}

// Draft assembles the current field values into a request draft
func (m FormModel) Draft() request.Draft {
	var emergencyType string
	if m.typeSelected >= 0 && m.typeSelected < len(request.EmergencyTypes) {
		emergencyType = string(request.EmergencyTypes[m.typeSelected])
	}

	return request.Draft{
		Name:          m.nameInput.Value(),
		Phone:         m.phoneInput.Value(),
		EmergencyType: emergencyType,
		Location:      m.locationInput.Value(),
		Description:   m.descriptionInput.Value(),
	}
}

// Reset clears all field state back to an empty draft
func (m *FormModel) Reset() {
	m.nameInput.SetValue("")
	m.phoneInput.SetValue("")
	m.locationInput.SetValue("")
	m.descriptionInput.SetValue("")
	m.typeCursor = 0
	m.typeSelected = -1
	m.fieldErrors = nil
	m.locating = false
	m.locateNotice = ""
	m.setFocus(fieldName)
	m.focusedButton = buttonSubmit
}

// Init implements tea.Model
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case locationResultMsg:
		m.locating = false
		if msg.err != nil {
			// Leave the location field untouched, just surface the failure
			m.locateNotice = "Location lookup failed: " + msg.err.Error()
			return m, nil
		}
		m.locationInput.SetValue(msg.coords.String())
		m.locateNotice = ""
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// updateKey routes a key press based on the current focus
func (m FormModel) updateKey(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }

	case "tab", "ctrl+n":
		m.advanceFocus()
		return m, nil

	case "shift+tab", "ctrl+p":
		m.retreatFocus()
		return m, nil

	case "ctrl+g":
		if m.locator == nil || m.locating {
			return m, nil
		}
		m.locating = true
		m.locateNotice = ""
		return m, fetchLocationCmd(m.locator, m.locateTimeout)
	}

	if m.focusedIndex == buttonsFocused {
		return m.updateButtons(msg)
	}

	if m.focusedIndex == fieldType {
		return m.updateTypeSelector(msg)
	}

	// Enter on a text field advances to the next one
	if msg.String() == "enter" {
		m.advanceFocus()
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// updateButtons handles input while the Submit/Cancel row has focus
func (m FormModel) updateButtons(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.focusedButton > buttonSubmit {
			m.focusedButton--
		}
		return m, nil

	case "right", "l":
		if m.focusedButton < buttonCancel {
			m.focusedButton++
		}
		return m, nil

	case "enter", " ":
		if m.focusedButton == buttonCancel {
			return m, func() tea.Msg { return CancelMsg{} }
		}
		return m.submit()
	}

	return m, nil
}

// updateTypeSelector handles input while the emergency type list has focus
func (m FormModel) updateTypeSelector(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.typeCursor > 0 {
			m.typeCursor--
		}
		return m, nil

	case "down", "j":
		if m.typeCursor < len(request.EmergencyTypes)-1 {
			m.typeCursor++
		}
		return m, nil

	case " ":
		m.typeSelected = m.typeCursor
		return m, nil

	case "enter":
		// Enter both selects the highlighted option and advances
		m.typeSelected = m.typeCursor
		m.advanceFocus()
		return m, nil
	}

	return m, nil
}

// updateFocusedInput passes the message to whichever text input has focus
func (m FormModel) updateFocusedInput(msg tea.Msg) (FormModel, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedIndex {
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldPhone:
		m.phoneInput, cmd = m.phoneInput.Update(msg)
	case fieldLocation:
		m.locationInput, cmd = m.locationInput.Update(msg)
	case fieldDescription:
		m.descriptionInput, cmd = m.descriptionInput.Update(msg)
	}

	return m, cmd
}

// submit validates the draft. On failure it records inline errors and emits
// nothing; on success it emits a SubmitMsg carrying the draft.
func (m FormModel) submit() (FormModel, tea.Cmd) {
	draft := m.Draft()

	result := request.Validate(&draft)
	if !result.Valid {
		errs := make(map[string]string, len(result.Errors))
		for _, fieldErr := range result.Errors {
			errs[fieldErr.Field] = fieldErr.Message
		}
		m.fieldErrors = errs
		return m, nil
	}

	m.fieldErrors = nil
	return m, func() tea.Msg { return SubmitMsg{Draft: draft} }
}

// advanceFocus moves focus to the next field, then the button row, then wraps
func (m *FormModel) advanceFocus() {
	if m.focusedIndex == buttonsFocused {
		if m.focusedButton == buttonSubmit {
			m.focusedButton = buttonCancel
			return
		}
		// Wrap back to the first field
		m.setFocus(fieldName)
		m.focusedButton = buttonSubmit
		return
	}

	if m.focusedIndex == fieldCount-1 {
		m.setFocus(buttonsFocused)
		m.focusedButton = buttonSubmit
		return
	}

	m.setFocus(m.focusedIndex + 1)
}

// retreatFocus moves focus to the previous field, wrapping through the buttons
func (m *FormModel) retreatFocus() {
	if m.focusedIndex == buttonsFocused {
		if m.focusedButton == buttonCancel {
			m.focusedButton = buttonSubmit
			return
		}
		m.setFocus(fieldCount - 1)
		return
	}

	if m.focusedIndex == fieldName {
		m.setFocus(buttonsFocused)
		m.focusedButton = buttonCancel
		return
	}

	m.setFocus(m.focusedIndex - 1)
}

// setFocus updates focusedIndex and the text input focus states
func (m *FormModel) setFocus(index int) {
	m.focusedIndex = index

	m.nameInput.Blur()
	m.phoneInput.Blur()
	m.locationInput.Blur()
	m.descriptionInput.Blur()

	switch index {
	case fieldName:
		m.nameInput.Focus()
	case fieldPhone:
		m.phoneInput.Focus()
	case fieldLocation:
		m.locationInput.Focus()
	case fieldDescription:
		m.descriptionInput.Focus()
	}
}

// fetchLocationCmd runs the coordinate lookup off the update loop
func fetchLocationCmd(locator *geoloc.Locator, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		coords, err := locator.Current(ctx)
		return locationResultMsg{coords: coords, err: err}
	}
}

// View renders the form modal content
func (m FormModel) View() string {
	var sections []string

	title := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).
		Render("NEW AMBULANCE REQUEST")
	sections = append(sections, title, "")

	sections = append(sections, m.renderTextField("Your name", request.FieldName, fieldName, m.nameInput))
	sections = append(sections, m.renderTextField("Phone number", request.FieldPhone, fieldPhone, m.phoneInput))
	sections = append(sections, m.renderTypeField())
	sections = append(sections, m.renderTextField("Location", request.FieldLocation, fieldLocation, m.locationInput))
	sections = append(sections, m.renderTextField("Description", request.FieldDescription, fieldDescription, m.descriptionInput))

	if m.locating {
		sections = append(sections, NoticeStyle.Render("Looking up your location..."), "")
	} else if m.locateNotice != "" {
		sections = append(sections, NoticeStyle.Render("⚠ "+m.locateNotice), "")
	}

	sections = append(sections, m.renderButtons(), "")

	helpLine := HelpStyle.Render("tab: next • ctrl+g: use my location • esc: cancel")
	sections = append(sections, helpLine)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(m.Width)

	return modalStyle.Render(content)
}

// renderTextField renders a labelled text input with its inline error
func (m FormModel) renderTextField(label, errField string, index int, input textinput.Model) string {
	labelStyle := LabelStyle
	if m.focusedIndex == index {
		labelStyle = FocusedLabelStyle
	}

	lines := []string{
		labelStyle.Render(label),
		input.View(),
	}

	if errMsg, ok := m.fieldErrors[errField]; ok {
		lines = append(lines, FieldErrorStyle.Render("✗ "+errMsg))
	}
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderTypeField renders the emergency type selector list
func (m FormModel) renderTypeField() string {
	labelStyle := LabelStyle
	if m.focusedIndex == fieldType {
		labelStyle = FocusedLabelStyle
	}

	lines := []string{labelStyle.Render("Emergency type")}

	for i, t := range request.EmergencyTypes {
		marker := "( )"
		if i == m.typeSelected {
			marker = "(•)"
		}

		line := marker + " " + t.Label()
		if m.focusedIndex == fieldType && i == m.typeCursor {
			lines = append(lines, SelectedListItemStyle.Render("→ "+line))
		} else {
			lines = append(lines, ListItemStyle.Render(line))
		}
	}

	if errMsg, ok := m.fieldErrors[request.FieldEmergencyType]; ok {
		lines = append(lines, FieldErrorStyle.Render("✗ "+errMsg))
	}
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderButtons renders the Submit/Cancel row
func (m FormModel) renderButtons() string {
	submitStyle := ButtonStyle
	cancelStyle := ButtonStyle

	if m.focusedIndex == buttonsFocused {
		if m.focusedButton == buttonSubmit {
			submitStyle = FocusedButtonStyle
		} else {
			cancelStyle = FocusedButtonStyle
		}
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		submitStyle.Render("Request Ambulance"),
		strings.Repeat(" ", 4),
		cancelStyle.Render("Cancel"),
	)

	return buttons
}
