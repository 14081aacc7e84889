// Package accounts is the terminal UI for the account registry. It talks to
// the daemon through a Service, normally a *client.Client.
package accounts

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/pkg/client"
)

// Service is the subset of the daemon client the TUI needs.
type Service interface {
	Platforms() ([]domain.Platform, error)
	Accounts(filter client.AccountFilter) ([]domain.PlatformAccount, error)
	AddAccount(payload *client.AddAccountPayload) (*domain.PlatformAccount, error)
	RemoveAccount(id string) (bool, error)
	DisconnectPlatform(platformID string) (int, error)
	Sync(records []backendsync.BackendAccount) (*domain.SyncRun, error)
}

// Compiletime check
var _ Service = (*client.Client)(nil)

// view represents different screens in the TUI
type view int

const (
	viewList view = iota
	viewAdd
	viewHelp
)

const (
	fieldTarget = iota
	fieldName
	fieldToken
	fieldCount
)

// Model is the Bubbletea model for the account manager
type Model struct {
	// Navigation
	currentView view
	width       int
	height      int
	quitting    bool

	svc Service

	// State
	platforms     []domain.Platform
	accounts      []domain.PlatformAccount
	rows          []domain.PlatformAccount
	cursor        int
	connectedOnly bool

	// Add form
	targetInput  textinput.Model
	nameInput    textinput.Model
	tokenInput   textinput.Model
	focusedField int

	spinner spinner.Model

	// UI state
	loading       bool
	statusMessage string
	errorMessage  string
}

// NewModel creates a new account manager TUI model
func NewModel(svc Service) Model {
	targetInput := textinput.New()
	targetInput.Placeholder = "Platform id or profile URL"
	targetInput.CharLimit = 256
	targetInput.Width = 60

	nameInput := textinput.New()
	nameInput.Placeholder = "Account name"
	nameInput.CharLimit = 100
	nameInput.Width = 40

	tokenInput := textinput.New()
	tokenInput.Placeholder = "Access token"
	tokenInput.CharLimit = 4096
	tokenInput.Width = 40
	tokenInput.EchoMode = textinput.EchoPassword

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		currentView: viewList,
		svc:         svc,
		targetInput: targetInput,
		nameInput:   nameInput,
		tokenInput:  tokenInput,
		spinner:     s,
		loading:     true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadPlatforms(m.svc),
		loadAccounts(m.svc, m.connectedOnly),
		m.spinner.Tick,
	)
}

// regroup orders accounts by catalog platform, keeping insertion order
// inside each platform. Accounts of platforms missing from the catalog go last.
func (m *Model) regroup() {
	rows := make([]domain.PlatformAccount, 0, len(m.accounts))
	seen := make(map[string]bool, len(m.platforms))

	for _, p := range m.platforms {
		seen[p.ID] = true
		for _, a := range m.accounts {
			if a.PlatformID == p.ID {
				rows = append(rows, a)
			}
		}
	}
	for _, a := range m.accounts {
		if !seen[a.PlatformID] {
			rows = append(rows, a)
		}
	}

	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the account under the cursor
func (m Model) selected() (domain.PlatformAccount, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return domain.PlatformAccount{}, false
	}
	return m.rows[m.cursor], true
}
