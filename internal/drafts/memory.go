package drafts

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-site-configurator/internal/domain"
)

// MemoryStore keeps drafts in process. Values are cloned on the way in and
// out so callers never share state with the map.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*domain.Draft
	opts   StoreOptions
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts StoreOptions) *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]*domain.Draft),
		opts:   opts,
	}
}

func (m *MemoryStore) SaveDraft(_ context.Context, draft *domain.Draft) error {
	if draft == nil {
		return ErrDraftRequired
	}
	id := strings.TrimSpace(draft.ID)
	if id == "" {
		return ErrDraftIDRequired
	}
	m.mu.Lock()
	m.drafts[id] = draft.Clone()
	m.mu.Unlock()
	return nil
}

// GetDraft deletes and reports not found for expired drafts. With
// ExtendOnRead the expiry moves to now+TTL on every hit.
func (m *MemoryStore) GetDraft(_ context.Context, id string) (*domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, ok := m.live(id)
	if !ok {
		return nil, &NotFoundError{Resource: "draft", Key: id}
	}
	if m.opts.ExtendOnRead {
		m.opts.touch(draft)
	}
	return draft.Clone(), nil
}

func (m *MemoryStore) UpdateDraft(_ context.Context, id string, mutate func(*domain.Draft) error) (*domain.Draft, error) {
	if mutate == nil {
		return nil, ErrMutateRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.live(id)
	if !ok {
		return nil, &NotFoundError{Resource: "draft", Key: id}
	}
	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = current.ID
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = m.opts.now()
	m.opts.touch(working)
	m.drafts[current.ID] = working
	return working.Clone(), nil
}

func (m *MemoryStore) DeleteDraft(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.TrimSpace(id)
	if _, ok := m.drafts[key]; !ok {
		return false, nil
	}
	delete(m.drafts, key)
	return true, nil
}

// GetAllDrafts lists unexpired drafts ordered by creation time.
func (m *MemoryStore) GetAllDrafts(context.Context) ([]*domain.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.opts.now()
	out := make([]*domain.Draft, 0, len(m.drafts))
	for _, draft := range m.drafts {
		if draft.Expired(now) {
			continue
		}
		out = append(out, draft.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) CleanupExpiredDrafts(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.opts.now()
	removed := 0
	for id, draft := range m.drafts {
		if draft.Expired(now) {
			delete(m.drafts, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// live returns the stored draft, dropping it when expired. Callers hold the
// write lock.
func (m *MemoryStore) live(id string) (*domain.Draft, bool) {
	key := strings.TrimSpace(id)
	draft, ok := m.drafts[key]
	if !ok {
		return nil, false
	}
	if draft.Expired(m.opts.now()) {
		delete(m.drafts, key)
		return nil, false
	}
	return draft, true
}
