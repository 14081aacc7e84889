package accounts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/autopost/pkg/client"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear previous messages on keypress
		m.errorMessage = ""
		m.statusMessage = ""

		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case platformsLoadedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.platforms = msg.platforms
		m.regroup()
		return m, nil

	case accountsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.accounts = msg.accounts
		m.regroup()
		return m, nil

	case addCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("✓ Added %s account %s", msg.account.PlatformName, msg.account.AccountName)
		m.currentView = viewList
		m.resetForm()
		return m, loadAccounts(m.svc, m.connectedOnly)

	case removeCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		if msg.removed {
			m.statusMessage = "✓ Account removed"
		} else {
			m.statusMessage = "Account was already gone"
		}
		return m, loadAccounts(m.svc, m.connectedOnly)

	case disconnectCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("✓ Disconnected %s (%d removed)", msg.platformID, msg.removed)
		return m, loadAccounts(m.svc, m.connectedOnly)

	case syncCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("✓ Synced %d accounts (%d connected)", msg.run.AccountCount, msg.run.ConnectedCount)
		return m, loadAccounts(m.svc, m.connectedOnly)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.currentView == viewAdd {
		cmds = append(cmds, m.updateInputs(msg))
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case viewList:
		return m.handleListKeys(msg)
	case viewAdd:
		return m.handleAddKeys(msg)
	case viewHelp:
		// Any key returns to list
		m.currentView = viewList
		return m, nil
	}
	return m, nil
}

// handleListKeys handles keys in the list view
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
		m.currentView = viewAdd
		m.focusedField = fieldTarget
		m.updateFocus()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("d"))):
		acc, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.loading = true
		return m, removeAccount(m.svc, acc.ID)

	case key.Matches(msg, key.NewBinding(key.WithKeys("x"))):
		acc, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.loading = true
		return m, disconnectPlatform(m.svc, acc.PlatformID)

	case key.Matches(msg, key.NewBinding(key.WithKeys("s"))):
		m.loading = true
		return m, syncAccounts(m.svc)

	case key.Matches(msg, key.NewBinding(key.WithKeys("c"))):
		m.connectedOnly = !m.connectedOnly
		m.loading = true
		return m, loadAccounts(m.svc, m.connectedOnly)

	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		m.loading = true
		return m, loadAccounts(m.svc, m.connectedOnly)

	case key.Matches(msg, key.NewBinding(key.WithKeys("?"))):
		m.currentView = viewHelp
		return m, nil
	}

	return m, nil
}

// handleAddKeys handles keys in the add form
func (m Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.currentView = viewList
		m.resetForm()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("tab"))):
		m.focusedField = (m.focusedField + 1) % fieldCount
		m.updateFocus()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab"))):
		m.focusedField--
		if m.focusedField < 0 {
			m.focusedField = fieldCount - 1
		}
		m.updateFocus()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		target := strings.TrimSpace(m.targetInput.Value())
		if target == "" {
			m.errorMessage = "Platform or profile URL is required"
			return m, nil
		}

		payload := &client.AddAccountPayload{
			AccountName: strings.TrimSpace(m.nameInput.Value()),
			AccessToken: m.tokenInput.Value(),
		}
		if strings.Contains(target, ".") || strings.Contains(target, "/") {
			payload.ProfileURL = target
		} else {
			payload.PlatformID = strings.ToLower(target)
		}

		m.loading = true
		return m, addAccount(m.svc, payload)
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

// updateInputs forwards msg to the focused text input
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focusedField {
	case fieldTarget:
		m.targetInput, cmd = m.targetInput.Update(msg)
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldToken:
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	}
	return cmd
}

// updateFocus updates which input field is focused
func (m *Model) updateFocus() {
	m.targetInput.Blur()
	m.nameInput.Blur()
	m.tokenInput.Blur()

	switch m.focusedField {
	case fieldTarget:
		m.targetInput.Focus()
	case fieldName:
		m.nameInput.Focus()
	case fieldToken:
		m.tokenInput.Focus()
	}
}

func (m *Model) resetForm() {
	m.targetInput.SetValue("")
	m.nameInput.SetValue("")
	m.tokenInput.SetValue("")
	m.focusedField = fieldTarget
}
