package domain

import "time"

// SyncSource identifica el origen de una sincronización
type SyncSource string

const (
	SyncSourceAPI       SyncSource = "api"
	SyncSourcePayload   SyncSource = "payload"
	SyncSourceScheduler SyncSource = "scheduler"
)

// SyncRun registra una sincronización contra el backend
type SyncRun struct {
	ID             int64      `json:"id"`
	Source         SyncSource `json:"source"`
	AccountCount   int        `json:"account_count"`
	ConnectedCount int        `json:"connected_count"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Failed retorna true si la sincronización no pudo aplicarse
func (r *SyncRun) Failed() bool {
	return r.ErrorMessage != ""
}
