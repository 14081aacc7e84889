package registry

import (
	"encoding/json"
	"fmt"

	"github.com/elsanchez/autopost/internal/domain"
)

// encodeAccounts serializes the set as a JSON array; nil encodes as [].
func encodeAccounts(accounts []domain.PlatformAccount) ([]byte, error) {
	if accounts == nil {
		accounts = []domain.PlatformAccount{}
	}
	return json.Marshal(accounts)
}

// decodeAccounts parses a stored array. Timestamps are RFC 3339 strings and
// decode into time.Time values.
func decodeAccounts(data []byte) ([]domain.PlatformAccount, error) {
	var accounts []domain.PlatformAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	// Entries without an id cannot be addressed; duplicates keep the first.
	seen := make(map[string]bool, len(accounts))
	out := accounts[:0]
	for _, a := range accounts {
		if a.ID == "" || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}

	return out, nil
}
