package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/aidline/aidline/internal/config"
	"github.com/aidline/aidline/internal/dispatch"
	"github.com/aidline/aidline/internal/geoloc"
	"github.com/aidline/aidline/internal/logging"
	"github.com/aidline/aidline/internal/request"
)

// submitCompleteMsg carries the outcome of an async submission
type submitCompleteMsg struct {
	receipt *dispatch.Receipt
	err     error
}

// homeKeyMap defines key bindings for the home screen
type homeKeyMap struct {
	New  key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k homeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k homeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Quit},
	}
}

// AppModel is the top-level coordinator model. It owns the home screen and
// the modal stack: request form, submitting progress, success and failure
// result modals. Result modals always take input priority over the form.
type AppModel struct {
	// Dependencies
	Client   *dispatch.Client
	Registry *config.Registry

	// Form state
	Form        FormModel
	ShowingForm bool

	// Result modal state
	ShowingProgress bool // Submission in flight, input blocked
	ShowingSuccess  bool
	ShowingFailure  bool

	Spinner     spinner.Model
	SubmitStart time.Time
	LastReceipt *dispatch.Receipt
	SubmitError error

	// UI state
	Width  int
	Height int

	// Help
	Help help.Model
	Keys homeKeyMap
}

// NewAppModel creates the application model
func NewAppModel(client *dispatch.Client, registry *config.Registry) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	var geoURL string
	locateTimeout := time.Duration(config.DefaultLocateTimeout) * time.Second
	if registry != nil && registry.Preferences != nil {
		geoURL = registry.Preferences.GeolocationURL
		if registry.Preferences.LocateTimeout > 0 {
			locateTimeout = time.Duration(registry.Preferences.LocateTimeout) * time.Second
		}
	}
	locator := geoloc.New(geoURL)

	keys := homeKeyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new request"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return AppModel{
		Client:   client,
		Registry: registry,
		Form:     NewFormModel(locator, locateTimeout),
		Spinner:  s,
		Help:     help.New(),
		Keys:     keys,
	}
}

// Init implements tea.Model
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles all messages. Result modals are checked first so they block
// form input while visible.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Form.Width = SafeModalWidth(ModalWidth, msg.Width)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	if m.ShowingProgress {
		return m.updateProgressModal(msg)
	}
	if m.ShowingSuccess {
		return m.updateSuccessModal(msg)
	}
	if m.ShowingFailure {
		return m.updateFailureModal(msg)
	}

	switch msg := msg.(type) {
	case SubmitMsg:
		return m.startSubmission(msg.Draft)

	case CancelMsg:
		// Dismissing the form discards the draft
		m.ShowingForm = false
		m.Form.Reset()
		return m, nil
	}

	if m.ShowingForm {
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		return m, cmd
	}

	return m.updateHome(msg)
}

// updateHome handles input on the home screen
func (m AppModel) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "n", "enter":
		return m.openForm()
	}

	return m, nil
}

// openForm opens the request form with a fresh draft, prefilled from the
// saved caller profile when one exists
func (m AppModel) openForm() (tea.Model, tea.Cmd) {
	m.Form.Reset()
	if m.Registry != nil && m.Registry.Profile != nil {
		m.Form.Prefill(m.Registry.Profile.Name, m.Registry.Profile.Phone)
	}
	m.ShowingForm = true
	return m, m.Form.Init()
}

// startSubmission kicks off the async dispatch call and shows the progress modal
func (m AppModel) startSubmission(draft request.Draft) (tea.Model, tea.Cmd) {
	m.ShowingProgress = true
	m.SubmitStart = time.Now()
	m.SubmitError = nil

	return m, tea.Batch(m.Spinner.Tick, submitCmd(m.Client, draft))
}

// submitCmd performs the submission off the update loop
func submitCmd(client *dispatch.Client, draft request.Draft) tea.Cmd {
	return func() tea.Msg {
		receipt, err := client.Submit(context.Background(), &draft)
		if err != nil {
			logging.Error("submission failed", zap.Error(err))
			return submitCompleteMsg{err: err}
		}

		logging.LogSubmission(receipt.ID, draft.EmergencyType, receipt.Simulated)
		return submitCompleteMsg{receipt: receipt}
	}
}

// updateProgressModal blocks input while the submission is in flight
func (m AppModel) updateProgressModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Block all input during submission
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case submitCompleteMsg:
		m.ShowingProgress = false
		if msg.err != nil {
			// Failure keeps the form open with the draft intact so the
			// user can retry or fall back to a phone call
			m.ShowingFailure = true
			m.SubmitError = msg.err
			return m, nil
		}

		// Success resets and closes the form
		m.ShowingSuccess = true
		m.LastReceipt = msg.receipt
		m.Form.Reset()
		m.ShowingForm = false
		return m, nil
	}

	return m, nil
}

// updateSuccessModal handles input on the success modal
func (m AppModel) updateSuccessModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", " ", "esc":
			m.ShowingSuccess = false
		}
	}
	return m, nil
}

// updateFailureModal handles input on the failure modal. Dismissing it
// returns to the still-open form.
func (m AppModel) updateFailureModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", " ", "esc":
			m.ShowingFailure = false
		}
	}
	return m, nil
}

// fallbackPhone returns the emergency number shown when submission fails
func (m AppModel) fallbackPhone() string {
	if m.Registry != nil {
		return m.Registry.FallbackPhone()
	}
	return config.DefaultFallbackPhone
}

// View renders the current screen. Result modals take priority, then the
// form, then the home screen.
func (m AppModel) View() string {
	if m.ShowingProgress {
		return RenderModal("", m.renderProgressModalContent(), m.Width, m.Height)
	}
	if m.ShowingSuccess {
		return RenderModal("", m.renderSuccessModalContent(), m.Width, m.Height)
	}
	if m.ShowingFailure {
		return RenderModal("", m.renderFailureModalContent(), m.Width, m.Height)
	}
	if m.ShowingForm {
		return RenderModal("", m.Form.View(), m.Width, m.Height)
	}

	return m.renderHome()
}

// renderHome renders the home screen
func (m AppModel) renderHome() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Emergency Ambulance Request"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Press n to compose a new request"))
	b.WriteString("\n")

	b.WriteString(StatusPanelStyle.Render(m.renderStatusPanel()))
	b.WriteString("\n")

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderStatusPanel builds the home screen status summary
func (m AppModel) renderStatusPanel() string {
	keyStyle := lipgloss.NewStyle().Foreground(SubtleColor).Width(12)
	valStyle := lipgloss.NewStyle().Foreground(TextColor)

	profile := "not set"
	if m.Registry != nil && m.Registry.Profile != nil && m.Registry.Profile.Name != "" {
		profile = m.Registry.Profile.Name
		if m.Registry.Profile.Phone != "" {
			profile += " (" + m.Registry.Profile.Phone + ")"
		}
	}

	endpoint := "simulated (no endpoint configured)"
	if m.Client != nil && !m.Client.Simulated() {
		endpoint = m.Client.BaseURL
	}

	lines := []string{
		keyStyle.Render("Caller:") + " " + valStyle.Render(profile),
		keyStyle.Render("Dispatch:") + " " + valStyle.Render(endpoint),
		keyStyle.Render("Fallback:") + " " + valStyle.Render(m.fallbackPhone()),
	}

	if m.LastReceipt != nil {
		lines = append(lines,
			keyStyle.Render("Last request:")+" "+SuccessStyle.Render(m.LastReceipt.ID))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderProgressModalContent renders the submitting modal
func (m AppModel) renderProgressModalContent() string {
	titleStyle := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	title := titleStyle.Render(fmt.Sprintf("%s SENDING AMBULANCE REQUEST", m.Spinner.View()))

	elapsed := time.Since(m.SubmitStart).Round(100 * time.Millisecond)
	timeStyle := lipgloss.NewStyle().Foreground(SubtleColor)

	status := fmt.Sprintf("%s Contacting dispatch...", m.Spinner.View())
	if m.Client != nil && m.Client.Simulated() {
		status = fmt.Sprintf("%s Contacting dispatch (simulated)...", m.Spinner.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		status,
		"",
		timeStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
	)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(SafeModalWidth(60, m.Width))

	return modalStyle.Render(content)
}

// renderSuccessModalContent renders the success notification modal
func (m AppModel) renderSuccessModalContent() string {
	titleStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	title := titleStyle.Render("✓ AMBULANCE REQUESTED")

	var details []string
	if m.LastReceipt != nil {
		keyStyle := lipgloss.NewStyle().Foreground(SubtleColor).Width(12)
		details = append(details,
			keyStyle.Render("Request ID:")+" "+m.LastReceipt.ID)
		if m.LastReceipt.ETAMinutes > 0 {
			details = append(details,
				keyStyle.Render("ETA:")+" "+fmt.Sprintf("%d minutes", m.LastReceipt.ETAMinutes))
		}
		if m.LastReceipt.Simulated {
			details = append(details,
				SubtleStatus("Simulated dispatch: no real ambulance was requested"))
		}
	}

	sections := []string{
		title,
		"",
		SuccessStyle.Render("Help is on the way. Keep your phone reachable."),
		"",
	}
	sections = append(sections, details...)
	sections = append(sections, "", HelpStyle.Render("enter/esc: close"))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 2).
		Width(SafeModalWidth(64, m.Width))

	return modalStyle.Render(content)
}

// renderFailureModalContent renders the failure notification modal with the
// out-of-band fallback instructions
func (m AppModel) renderFailureModalContent() string {
	titleStyle := lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	title := titleStyle.Render("✗ REQUEST FAILED")

	errText := "The request could not be delivered."
	if m.SubmitError != nil {
		errText = m.SubmitError.Error()
	}

	fallback := WarningBoxStyle.Render(
		fmt.Sprintf("If this is a real emergency call %s now", m.fallbackPhone()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.NewStyle().Foreground(ErrorColor).Render(errText),
		"",
		fallback,
		"",
		"Your request details were kept so you can try again.",
		"",
		HelpStyle.Render("enter/esc: back to form"),
	)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ErrorColor).
		Padding(1, 2).
		Width(SafeModalWidth(64, m.Width))

	return modalStyle.Render(content)
}

// SubtleStatus renders muted one-line status text
func SubtleStatus(text string) string {
	return lipgloss.NewStyle().Foreground(SubtleColor).Render(text)
}

// Run starts the interactive application
func Run(client *dispatch.Client, registry *config.Registry) error {
	model := NewAppModel(client, registry)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
