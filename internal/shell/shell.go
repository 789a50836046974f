// Package shell tracks rendering shells: one per open browser tab, each with
// its own language selector and challenge gate.
package shell

import (
	"sync"
	"time"

	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
)

const subscriberBuffer = 8

// Shell pairs a localization store and a challenge gate. Every mutation of
// either is published to subscribers as a fresh ShellState.
type Shell struct {
	ID        string
	CreatedAt time.Time

	store *i18n.Store
	gate  *gate.Gate
	now   func() time.Time

	mu             sync.Mutex
	lastSeen       time.Time
	subs           map[int]chan models.ShellState
	nextSub        int
	closed         bool
	unsubscribeLng func()
}

// Store returns the shell's localization store
func (s *Shell) Store() *i18n.Store {
	return s.store
}

// Gate returns the shell's challenge gate
func (s *Shell) Gate() *gate.Gate {
	return s.gate
}

// State returns what the page should currently render
func (s *Shell) State() models.ShellState {
	return models.ShellState{
		ID:        s.ID,
		Language:  s.store.ActiveLanguage(),
		Gate:      s.gate.Snapshot(),
		UpdatedAt: s.now().UTC(),
	}
}

// Touch records activity so the cleanup worker keeps the shell alive
func (s *Shell) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

// LastSeen returns the time of the last recorded activity
func (s *Shell) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Subscribe returns a channel of state updates. Slow readers lose older
// updates, never the newest. The channel is closed by the returned cancel
// function or when the shell is closed.
func (s *Shell) Subscribe() (<-chan models.ShellState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan models.ShellState, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Shell) publish() {
	state := s.State()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.lastSeen = s.now()

	for _, ch := range s.subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// close dismisses the gate, stops listening to the store and ends every
// subscription
func (s *Shell) close() {
	s.gate.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.unsubscribeLng != nil {
		s.unsubscribeLng()
	}
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
