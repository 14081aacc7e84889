package accounts

import "github.com/elsanchez/autopost/internal/domain"

// Message types for async operations

type accountsLoadedMsg struct {
	accounts []domain.PlatformAccount
	err      error
}

type platformsLoadedMsg struct {
	platforms []domain.Platform
	err       error
}

type addCompleteMsg struct {
	account *domain.PlatformAccount
	err     error
}

type removeCompleteMsg struct {
	removed bool
	err     error
}

type disconnectCompleteMsg struct {
	platformID string
	removed    int
	err        error
}

type syncCompleteMsg struct {
	run *domain.SyncRun
	err error
}
