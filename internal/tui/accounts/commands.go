package accounts

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/autopost/pkg/client"
)

// Async commands that return tea.Msg

func loadAccounts(svc Service, connectedOnly bool) tea.Cmd {
	return func() tea.Msg {
		accounts, err := svc.Accounts(client.AccountFilter{ConnectedOnly: connectedOnly})
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func loadPlatforms(svc Service) tea.Cmd {
	return func() tea.Msg {
		platforms, err := svc.Platforms()
		return platformsLoadedMsg{platforms: platforms, err: err}
	}
}

func addAccount(svc Service, payload *client.AddAccountPayload) tea.Cmd {
	return func() tea.Msg {
		account, err := svc.AddAccount(payload)
		return addCompleteMsg{account: account, err: err}
	}
}

func removeAccount(svc Service, id string) tea.Cmd {
	return func() tea.Msg {
		removed, err := svc.RemoveAccount(id)
		return removeCompleteMsg{removed: removed, err: err}
	}
}

func disconnectPlatform(svc Service, platformID string) tea.Cmd {
	return func() tea.Msg {
		n, err := svc.DisconnectPlatform(platformID)
		return disconnectCompleteMsg{platformID: platformID, removed: n, err: err}
	}
}

func syncAccounts(svc Service) tea.Cmd {
	return func() tea.Msg {
		run, err := svc.Sync(nil)
		return syncCompleteMsg{run: run, err: err}
	}
}
