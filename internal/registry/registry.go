// Package registry holds the client-side view of connected social accounts
// and keeps it mirrored to a key-value store.
//
// The registry is a best-effort cache: unknown platforms, unknown ids and
// storage failures degrade to no-ops or log lines instead of errors. The
// backend is the source of truth and a sync replaces the whole set.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/repository"
)

// StorageKey is the key holding the serialized account list.
const StorageKey = "platformAccounts"

// Recorder receives registry metrics.
type Recorder interface {
	RecordPersistWrite()
	RecordPersistFailure()
	SetAccountCounts(byPlatform map[string]int)
}

type nopRecorder struct{}

func (nopRecorder) RecordPersistWrite()              {}
func (nopRecorder) RecordPersistFailure()            {}
func (nopRecorder) SetAccountCounts(map[string]int) {}

// Options configures a Registry. Zero values pick the defaults.
type Options struct {
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
	Metrics     Recorder
}

// Registry is the in-memory account set mirrored to storage.
type Registry struct {
	mu       sync.Mutex
	store    repository.KeyValueStore
	catalog  *domain.Catalog
	accounts []domain.PlatformAccount

	newID   func() string
	now     func() time.Time
	logger  *slog.Logger
	metrics Recorder
}

// New creates a registry and rehydrates it from the store.
func New(ctx context.Context, store repository.KeyValueStore, catalog *domain.Catalog, opts Options) *Registry {
	r := &Registry{
		store:   store,
		catalog: catalog,
		newID:   opts.IDGenerator,
		now:     opts.Now,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}

	if r.newID == nil {
		r.newID = uuid.NewString
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = nopRecorder{}
	}

	r.accounts = r.load(ctx)
	r.metrics.SetAccountCounts(countByPlatform(r.accounts))

	return r
}

// load reads the persisted set; any failure starts empty.
func (r *Registry) load(ctx context.Context) []domain.PlatformAccount {
	data, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		r.logger.Warn("failed to read stored accounts",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !ok {
		return nil
	}

	accounts, err := decodeAccounts(data)
	if err != nil {
		r.logger.Warn("ignoring malformed stored accounts",
			slog.String("error", err.Error()),
			slog.Int("bytes", len(data)),
		)
		return nil
	}

	return accounts
}

// Catalog returns the platform catalog used for lookups.
func (r *Registry) Catalog() *domain.Catalog {
	return r.catalog
}

// Platforms returns the static platform catalog.
func (r *Registry) Platforms() []domain.Platform {
	return r.catalog.All()
}

// Accounts returns a copy of every account in insertion order.
func (r *Registry) Accounts() []domain.PlatformAccount {
	return r.filter(func(domain.PlatformAccount) bool { return true })
}

// AccountsByPlatform returns the accounts of one platform.
func (r *Registry) AccountsByPlatform(platformID string) []domain.PlatformAccount {
	return r.filter(func(a domain.PlatformAccount) bool { return a.PlatformID == platformID })
}

// ConnectedAccounts returns the accounts with Connected set.
func (r *Registry) ConnectedAccounts() []domain.PlatformAccount {
	return r.filter(func(a domain.PlatformAccount) bool { return a.Connected })
}

// Account returns one account by id.
func (r *Registry) Account(id string) (domain.PlatformAccount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		return r.accounts[i].Clone(), true
	}
	return domain.PlatformAccount{}, false
}

func (r *Registry) filter(keep func(domain.PlatformAccount) bool) []domain.PlatformAccount {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PlatformAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

// AddAccount connects a new account. It returns false and changes nothing
// when platformID is not in the catalog.
func (r *Registry) AddAccount(ctx context.Context, platformID, accountName, accessToken string, profile *domain.ProfileInfo) (*domain.PlatformAccount, bool) {
	platform, ok := r.catalog.Lookup(platformID)
	if !ok {
		r.logger.Debug("add account for unknown platform ignored",
			slog.String("platform", platformID),
		)
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	lastPost := now

	acc := domain.NewAccountFor(platform)
	acc.ID = r.uniqueID()
	acc.AccountName = accountName
	acc.AccessToken = accessToken
	acc.Connected = true
	acc.ProfileInfo = profile.Clone()
	acc.CreatedAt = now
	acc.LastPost = &lastPost

	r.accounts = append(r.accounts, acc)
	r.persistLocked(ctx)

	out := acc.Clone()
	return &out, true
}

// ConnectPlatform adds one account named after the platform.
//
// Deprecated: use AddAccount.
func (r *Registry) ConnectPlatform(ctx context.Context, platformID, accessToken string) (*domain.PlatformAccount, bool) {
	platform, ok := r.catalog.Lookup(platformID)
	if !ok {
		return nil, false
	}
	return r.AddAccount(ctx, platformID, platform.Name, accessToken, nil)
}

// UpdateAccount merges patch into the matching account.
func (r *Registry) UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch) (*domain.PlatformAccount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, false
	}

	r.accounts[i].Apply(patch)
	r.persistLocked(ctx)

	out := r.accounts[i].Clone()
	return &out, true
}

// RemoveAccount deletes the matching account.
func (r *Registry) RemoveAccount(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	r.accounts = append(r.accounts[:i:i], r.accounts[i+1:]...)
	r.persistLocked(ctx)
	return true
}

// DisconnectPlatform removes every account of a platform and returns how
// many were removed.
func (r *Registry) DisconnectPlatform(ctx context.Context, platformID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]domain.PlatformAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		if a.PlatformID != platformID {
			kept = append(kept, a)
		}
	}

	removed := len(r.accounts) - len(kept)
	if removed == 0 {
		return 0
	}

	r.accounts = kept
	r.persistLocked(ctx)
	return removed
}

// Replace swaps the whole account set and returns a copy of what was
// applied. Accounts missing from the new set are dropped. Entries without an
// id get a generated one and repeated ids keep the first entry, so the stored
// set reloads unchanged.
func (r *Registry) Replace(ctx context.Context, accounts []domain.PlatformAccount) []domain.PlatformAccount {
	taken := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.ID != "" {
			taken[a.ID] = true
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.PlatformAccount, 0, len(accounts))
	kept := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		acc := a.Clone()

		switch {
		case acc.ID == "":
			acc.ID = r.freshID(taken)
			r.logger.Warn("assigned id to account without one",
				slog.String("id", acc.ID),
				slog.String("platform", acc.PlatformID),
			)
		case kept[acc.ID]:
			r.logger.Warn("dropping account with duplicate id",
				slog.String("id", acc.ID),
				slog.String("platform", acc.PlatformID),
			)
			continue
		}

		kept[acc.ID] = true
		next = append(next, acc)
	}

	r.accounts = next
	r.persistLocked(ctx)
	return cloneAll(r.accounts)
}

// persistLocked writes the full set. Caller holds r.mu.
func (r *Registry) persistLocked(ctx context.Context) {
	r.metrics.SetAccountCounts(countByPlatform(r.accounts))

	data, err := encodeAccounts(r.accounts)
	if err != nil {
		r.metrics.RecordPersistFailure()
		r.logger.Error("failed to encode accounts",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.store.Set(ctx, StorageKey, data); err != nil {
		r.metrics.RecordPersistFailure()
		r.logger.Error("failed to persist accounts",
			slog.String("error", err.Error()),
			slog.Int("accounts", len(r.accounts)),
		)
		return
	}

	r.metrics.RecordPersistWrite()
}

func (r *Registry) indexOf(id string) int {
	for i := range r.accounts {
		if r.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// freshID draws an id absent from taken and records it there.
func (r *Registry) freshID(taken map[string]bool) string {
	for {
		id := r.newID()
		if id != "" && !taken[id] {
			taken[id] = true
			return id
		}
	}
}

// uniqueID draws ids until one is free. Caller holds r.mu.
func (r *Registry) uniqueID() string {
	for {
		id := r.newID()
		if id != "" && r.indexOf(id) < 0 {
			return id
		}
	}
}

func countByPlatform(accounts []domain.PlatformAccount) map[string]int {
	counts := make(map[string]int)
	for _, a := range accounts {
		counts[a.PlatformID]++
	}
	return counts
}

func cloneAll(accounts []domain.PlatformAccount) []domain.PlatformAccount {
	out := make([]domain.PlatformAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Clone())
	}
	return out
}
