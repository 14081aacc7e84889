package accounts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elsanchez/autopost/internal/domain"
)

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"}).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "63"}).
			Padding(1, 2)

	activeInputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	inactiveInputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})
)

// View renders the current view
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content string

	switch m.currentView {
	case viewAdd:
		content = m.viewAdd()
	case viewHelp:
		content = m.viewHelp()
	default:
		content = m.viewList()
	}

	if m.errorMessage != "" {
		content += "\n" + errorStyle.Render("Error: "+m.errorMessage)
	} else if m.statusMessage != "" {
		content += "\n" + successStyle.Render(m.statusMessage)
	}

	if m.loading {
		content += "\n" + m.spinner.View() + " Loading..."
	}

	return content
}

// platformHeader renders a platform name in its brand color
func platformHeader(p domain.Platform, count int) string {
	style := lipgloss.NewStyle().Bold(true)
	if p.Color != "" {
		style = style.Foreground(lipgloss.Color(p.Color))
	}
	return fmt.Sprintf("  %s (%d):", style.Render(p.Name), count)
}

// viewList renders accounts grouped by platform
func (m Model) viewList() string {
	title := titleStyle.Render("AutoPost Accounts")

	var b strings.Builder
	b.WriteString(title + "\n\n")

	if m.connectedOnly {
		b.WriteString(helpStyle.Render("  Showing connected accounts only") + "\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString("  No accounts found. Press 'n' to add one or 's' to sync.\n")
	} else {
		groups := 0
		var current string
		for i, acc := range m.rows {
			if acc.PlatformID != current {
				if current != "" {
					b.WriteString("\n")
				}
				current = acc.PlatformID
				groups++
				b.WriteString(platformHeader(m.platformFor(acc), m.countFor(acc.PlatformID)) + "\n")
			}

			cursor := "  "
			if i == m.cursor {
				cursor = "▸ "
			}

			status := "✗"
			if acc.Connected {
				status = "✓"
			}

			line := fmt.Sprintf("  %s%s %-24s", cursor, status, acc.AccountName)
			if acc.Followers != nil {
				line += fmt.Sprintf(" %d followers", *acc.Followers)
			}
			b.WriteString(line + "\n")

			if i == m.cursor && acc.ProfileInfo != nil && acc.ProfileInfo.Username != "" {
				b.WriteString(fmt.Sprintf("       %s\n", helpStyle.Render("@"+acc.ProfileInfo.Username)))
			}
		}

		b.WriteString(fmt.Sprintf("\n  %d accounts across %d platforms\n", len(m.rows), groups))
	}

	help := "\n" + helpStyle.Render(
		"  ↑/k up • ↓/j down • n add • d remove • x disconnect platform • s sync • c connected only • r refresh • ? help • q quit",
	)

	return b.String() + help
}

// viewAdd renders the add account form
func (m Model) viewAdd() string {
	title := titleStyle.Render("Add Account")

	var b strings.Builder
	b.WriteString(title + "\n\n")

	fields := []struct {
		label string
		input string
	}{
		{"Platform or Profile URL:", m.targetInput.View()},
		{"Account Name:", m.nameInput.View()},
		{"Access Token:", m.tokenInput.View()},
	}

	for i, f := range fields {
		style := inactiveInputStyle
		if i == m.focusedField {
			style = activeInputStyle
		}
		b.WriteString(style.Render("  "+f.label) + "\n")
		b.WriteString("  " + f.input + "\n\n")
	}

	help := helpStyle.Render("  Tab next field • Enter add • Esc cancel")

	return boxStyle.Render(b.String()) + "\n\n" + help
}

// viewHelp renders the help screen
func (m Model) viewHelp() string {
	title := titleStyle.Render("Help")

	help := `
  Navigation:
    ↑/k        Move up
    ↓/j        Move down
    q          Quit

  Actions:
    n          Add account
    d          Remove selected account
    x          Disconnect the selected account's platform
    s          Sync with the backend
    c          Toggle connected-only filter
    r          Refresh
    ?          Show this help

  Add Form:
    Tab        Next field
    Shift+Tab  Previous field
    Enter      Add
    Esc        Cancel

  Tips:
    - A profile URL selects the platform automatically
    - Sync replaces local accounts with the backend's
`

	return title + "\n" + help + "\n" + helpStyle.Render("  Press any key to return")
}

func (m Model) platformFor(acc domain.PlatformAccount) domain.Platform {
	for _, p := range m.platforms {
		if p.ID == acc.PlatformID {
			return p
		}
	}
	return domain.Platform{ID: acc.PlatformID, Name: acc.PlatformName, Color: acc.Color}
}

func (m Model) countFor(platformID string) int {
	n := 0
	for _, a := range m.rows {
		if a.PlatformID == platformID {
			n++
		}
	}
	return n
}
