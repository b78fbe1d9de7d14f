package drafts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// Backend names the store a Manager settled on.
type Backend string

const (
	BackendUndetermined   Backend = "undetermined"
	BackendDurable        Backend = "durable"
	BackendMemoryFallback Backend = "memory"
)

var ErrCleanupIntervalInvalid = errors.New("drafts: cleanup interval must be positive")

const (
	sweepTimeout = 30 * time.Second
	probeTimeout = 5 * time.Second
)

// ManagerConfig wires a Manager. Durable is optional; without it, or when its
// probe fails, drafts live in memory for the rest of the process.
type ManagerConfig struct {
	Durable Store
	Options StoreOptions
	Logger  interfaces.Logger
}

// Manager selects the draft backend once and delegates every Store call to
// it. Selection happens on first use and is shared by concurrent callers.
type Manager struct {
	mu      sync.Mutex
	backend Backend
	active  Store
	durable Store
	opts    StoreOptions
	logger  interfaces.Logger

	cronMu sync.Mutex
	cron   *cron.Cron
}

var _ Store = (*Manager)(nil)

func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Manager{
		backend: BackendUndetermined,
		durable: cfg.Durable,
		opts:    cfg.Options,
		logger:  logger,
	}
}

// Backend reports the selected backend without triggering selection.
func (m *Manager) Backend() Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend
}

// Init runs backend selection. Later calls return the settled store.
func (m *Manager) Init(ctx context.Context) Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend != BackendUndetermined {
		return m.active
	}

	if m.durable != nil {
		// Selection is permanent, so the probe outlives a cancelled caller.
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
		err := m.durable.Ping(probeCtx)
		cancel()
		if err == nil {
			m.backend = BackendDurable
			m.active = m.durable
			m.logger.Info("draft storage ready", "backend", m.backend)
			return m.active
		}
		m.logger.Warn("durable draft storage unavailable, using memory", "error", err)
	}
	m.backend = BackendMemoryFallback
	m.active = NewMemoryStore(m.opts)
	m.logger.Info("draft storage ready", "backend", m.backend)
	return m.active
}

func (m *Manager) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	return m.Init(ctx).SaveDraft(ctx, draft)
}

func (m *Manager) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	return m.Init(ctx).GetDraft(ctx, id)
}

func (m *Manager) UpdateDraft(ctx context.Context, id string, mutate func(*domain.Draft) error) (*domain.Draft, error) {
	return m.Init(ctx).UpdateDraft(ctx, id, mutate)
}

func (m *Manager) DeleteDraft(ctx context.Context, id string) (bool, error) {
	return m.Init(ctx).DeleteDraft(ctx, id)
}

func (m *Manager) GetAllDrafts(ctx context.Context) ([]*domain.Draft, error) {
	return m.Init(ctx).GetAllDrafts(ctx)
}

func (m *Manager) CleanupExpiredDrafts(ctx context.Context) (int, error) {
	removed, err := m.Init(ctx).CleanupExpiredDrafts(ctx)
	if err != nil {
		m.logger.Error("draft cleanup failed", "error", err)
		return 0, err
	}
	if removed > 0 {
		m.logger.Info("expired drafts removed", "count", removed)
	}
	return removed, nil
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.Init(ctx).Ping(ctx)
}

// StartCleanup schedules CleanupExpiredDrafts every interval. A running
// schedule is replaced.
func (m *Manager) StartCleanup(interval time.Duration) error {
	if interval <= 0 {
		return ErrCleanupIntervalInvalid
	}
	m.cronMu.Lock()
	defer m.cronMu.Unlock()
	m.stopCronLocked()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		_, _ = m.CleanupExpiredDrafts(ctx)
	}); err != nil {
		return fmt.Errorf("drafts: schedule cleanup: %w", err)
	}
	m.cron = c
	c.Start()
	m.logger.Info("draft cleanup scheduled", "interval", interval.String())
	return nil
}

// StopCleanup stops the schedule and waits for a running sweep to finish.
func (m *Manager) StopCleanup() {
	m.cronMu.Lock()
	defer m.cronMu.Unlock()
	m.stopCronLocked()
}

func (m *Manager) stopCronLocked() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
	m.cron = nil
}
