// Package gate implements the riddle gate in front of the Instagram link.
//
// The gate is decoration, not access control: it never navigates and never
// blocks the link. It only exposes its state; the shell decides what an
// accepted answer means.
package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
)

const (
	DefaultRejectDelay = 2 * time.Second
	DefaultAcceptDelay = 3 * time.Second
)

// Options configures a Gate
type Options struct {
	RejectDelay time.Duration // rejected -> pending
	AcceptDelay time.Duration // accepted -> closed
	Clock       Clock
	Pick        Picker

	// OnChange runs after every transition, including timer-fired ones.
	// It is called without the gate lock held.
	OnChange func(models.GateSnapshot)
}

// Gate is the challenge state machine. All methods are safe for concurrent
// use; transitions are serialized.
type Gate struct {
	mu      sync.Mutex
	store   *i18n.Store
	riddles []*models.Riddle
	opts    Options

	session *models.ChallengeSession
	timer   Timer
	epoch   uint64 // bumped whenever a pending timer must be invalidated
	version uint64 // bumped on every transition
}

// New creates a closed gate. It panics when store is nil or the riddle
// collection is empty: both are startup invariants.
func New(store *i18n.Store, riddles []*models.Riddle, opts Options) *Gate {
	if store == nil {
		panic("gate: localization store is required")
	}
	if len(riddles) == 0 {
		panic("gate: riddle collection is empty")
	}
	if opts.RejectDelay <= 0 {
		opts.RejectDelay = DefaultRejectDelay
	}
	if opts.AcceptDelay <= 0 {
		opts.AcceptDelay = DefaultAcceptDelay
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Pick == nil {
		opts.Pick = UniformPicker
	}

	return &Gate{
		store:   store,
		riddles: riddles,
		opts:    opts,
	}
}

// NewFromContext creates a gate bound to the store carried by ctx. It panics
// when ctx has no store.
func NewFromContext(ctx context.Context, riddles []*models.Riddle, opts Options) *Gate {
	return New(i18n.MustFromContext(ctx), riddles, opts)
}

// Open starts a fresh session with a newly drawn riddle. Opening an open
// gate discards the previous session, its input and any pending timer.
func (g *Gate) Open() models.GateSnapshot {
	g.mu.Lock()
	g.cancelTimerLocked()

	idx := g.opts.Pick(len(g.riddles))
	if idx < 0 || idx >= len(g.riddles) {
		idx = 0
	}
	g.session = &models.ChallengeSession{
		Riddle:   g.riddles[idx],
		State:    models.GatePending,
		OpenedAt: g.opts.Clock.Now(),
	}
	snap := g.transitionLocked()
	g.mu.Unlock()

	slog.Debug("gate opened", "riddle", snap.RiddleID)
	g.notify(snap)
	return snap
}

// Input records the raw text typed so far. It does not validate and is a
// no-op while the gate is closed.
func (g *Gate) Input(text string) models.GateSnapshot {
	g.mu.Lock()
	if g.session == nil {
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap
	}
	g.session.Input = text
	snap := g.transitionLocked()
	g.mu.Unlock()

	g.notify(snap)
	return snap
}

// Submit checks text against the current riddle. A match moves the gate to
// accepted and schedules the auto-close; anything else, including empty
// input, moves it to rejected and schedules the return to pending.
// Submitting while closed or already accepted changes nothing.
func (g *Gate) Submit(text string) models.GateSnapshot {
	g.mu.Lock()
	if g.session == nil || g.session.State == models.GateAccepted {
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap
	}

	g.session.Input = text
	if g.session.Riddle.Accepts(Normalize(text)) {
		g.session.State = models.GateAccepted
		g.scheduleLocked(g.opts.AcceptDelay, g.closeLocked)
	} else {
		g.session.State = models.GateRejected
		g.scheduleLocked(g.opts.RejectDelay, g.clearRejectionLocked)
	}
	snap := g.transitionLocked()
	g.mu.Unlock()

	slog.Debug("gate answer checked", "riddle", snap.RiddleID, "state", snap.State)
	g.notify(snap)
	return snap
}

// Close dismisses the gate, discarding the session and any pending timer
func (g *Gate) Close() models.GateSnapshot {
	g.mu.Lock()
	if g.session == nil {
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap
	}
	g.cancelTimerLocked()
	g.closeLocked()
	snap := g.transitionLocked()
	g.mu.Unlock()

	g.notify(snap)
	return snap
}

// State returns the current state
func (g *Gate) State() models.GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return models.GateClosed
	}
	return g.session.State
}

// Session returns a copy of the open session, or nil when closed
func (g *Gate) Session() *models.ChallengeSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

// Snapshot returns the current view with strings in the active language
func (g *Gate) Snapshot() models.GateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Gate) closeLocked() {
	g.session = nil
}

func (g *Gate) clearRejectionLocked() {
	g.session.State = models.GatePending
}

// scheduleLocked replaces any pending timer with one that runs fire after d.
// fire runs with the lock held and only if nothing invalidated it first.
func (g *Gate) scheduleLocked(d time.Duration, fire func()) {
	g.cancelTimerLocked()
	epoch := g.epoch

	g.timer = g.opts.Clock.AfterFunc(d, func() {
		g.mu.Lock()
		if g.epoch != epoch || g.session == nil {
			g.mu.Unlock()
			return
		}
		g.timer = nil
		fire()
		snap := g.transitionLocked()
		g.mu.Unlock()

		slog.Debug("gate timer fired", "state", snap.State)
		g.notify(snap)
	})
}

// cancelTimerLocked stops the pending timer. Bumping the epoch also defeats
// a callback that already started and is waiting on the lock.
func (g *Gate) cancelTimerLocked() {
	g.epoch++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Gate) transitionLocked() models.GateSnapshot {
	g.version++
	return g.snapshotLocked()
}

func (g *Gate) snapshotLocked() models.GateSnapshot {
	text := g.store.Content().Challenge
	snap := models.GateSnapshot{
		State:       models.GateClosed,
		Version:     g.version,
		Title:       text.Title,
		Description: text.Description,
		Placeholder: text.Placeholder,
		Submit:      text.Submit,
	}
	if g.session == nil {
		return snap
	}

	snap.State = g.session.State
	snap.RiddleID = g.session.Riddle.ID
	snap.Code = g.session.Riddle.Code
	snap.Input = g.session.Input
	switch g.session.State {
	case models.GateRejected:
		snap.Message = text.Error
	case models.GateAccepted:
		snap.Message = text.Success
	}
	return snap
}

func (g *Gate) notify(snap models.GateSnapshot) {
	if g.opts.OnChange != nil {
		g.opts.OnChange(snap)
	}
}
