package shell

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
)

// ErrShellNotFound is returned for unknown or expired shell IDs
var ErrShellNotFound = errors.New("shell not found")

// Registry manages live shells
type Registry struct {
	mu      sync.RWMutex
	shells  map[string]*Shell
	table   *i18n.Table
	riddles []*models.Riddle
	opts    gate.Options
	now     func() time.Time
}

// NewRegistry creates a registry whose shells render from table and draw
// riddles from riddles. opts.OnChange is ignored; each shell wires its own.
func NewRegistry(table *i18n.Table, riddles []*models.Riddle, opts gate.Options) *Registry {
	return &Registry{
		shells:  make(map[string]*Shell),
		table:   table,
		riddles: riddles,
		opts:    opts,
		now:     time.Now,
	}
}

// Create registers a new shell with lang active. Invalid languages leave
// the default selected.
func (r *Registry) Create(lang models.LanguageCode) *Shell {
	now := r.now()
	sh := &Shell{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		store:     r.table.NewStore(),
		now:       r.now,
		lastSeen:  now,
		subs:      make(map[int]chan models.ShellState),
	}
	if lang.IsValid() {
		sh.store.SetLanguage(lang)
	}

	opts := r.opts
	opts.OnChange = func(models.GateSnapshot) { sh.publish() }
	sh.gate = gate.New(sh.store, r.riddles, opts)
	sh.unsubscribeLng = sh.store.Subscribe(func(models.LanguageCode) { sh.publish() })

	r.mu.Lock()
	r.shells[sh.ID] = sh
	r.mu.Unlock()

	slog.Info("shell created", "id", sh.ID, "language", sh.store.ActiveLanguage())
	return sh
}

// Get retrieves a shell by ID
func (r *Registry) Get(id string) (*Shell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sh, ok := r.shells[id]
	if !ok {
		return nil, ErrShellNotFound
	}
	return sh, nil
}

// Delete closes and removes a shell
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	sh, ok := r.shells[id]
	if ok {
		delete(r.shells, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrShellNotFound
	}
	sh.close()
	slog.Info("shell deleted", "id", id)
	return nil
}

// Len returns the number of live shells
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shells)
}

// Expired returns shells with no activity for longer than idle
func (r *Registry) Expired(idle time.Duration) []*Shell {
	cutoff := r.now().Add(-idle)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []*Shell
	for _, sh := range r.shells {
		if sh.LastSeen().Before(cutoff) {
			expired = append(expired, sh)
		}
	}
	return expired
}

// Close closes every shell
func (r *Registry) Close() {
	r.mu.Lock()
	shells := r.shells
	r.shells = make(map[string]*Shell)
	r.mu.Unlock()

	for _, sh := range shells {
		sh.close()
	}
}
