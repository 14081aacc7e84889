package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elsanchez/autopost/internal/backendsync"
)

// socialAccounts decodes either a bare array or {"accounts": [...]}.
type socialAccounts []backendsync.BackendAccount

func (s *socialAccounts) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []backendsync.BackendAccount
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}

	var wrapped struct {
		Accounts []backendsync.BackendAccount `json:"accounts"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	*s = wrapped.Accounts
	return nil
}

// ListSocialAccounts fetches the connected social accounts of the
// authenticated user, ready to be mapped into the registry.
func (c *Client) ListSocialAccounts(ctx context.Context) ([]backendsync.BackendAccount, error) {
	var accounts socialAccounts
	if err := c.get(ctx, "/social/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("list social accounts: %w", err)
	}
	if accounts == nil {
		return []backendsync.BackendAccount{}, nil
	}
	return accounts, nil
}
