package domain

// Stats resume el estado del registro y de las sincronizaciones
type Stats struct {
	Accounts      int            `json:"accounts"`
	Connected     int            `json:"connected"`
	ByPlatform    map[string]int `json:"by_platform"`
	LastSync      *SyncRun       `json:"last_sync,omitempty"`
	FailedSyncs   int            `json:"failed_syncs"`
	SyncInterval  string         `json:"sync_interval,omitempty"`
	UptimeSeconds int64          `json:"uptime_seconds"`
}
