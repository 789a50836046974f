// Package i18n holds the localization store: the fixed language to content
// table and the active language selector consumers render from.
package i18n

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/akopian/portfolio/internal/models"
)

// ErrUnsupportedLanguage is returned for language codes outside the table
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Table is the validated, immutable mapping from language to content tree.
// One table is shared by every store.
type Table struct {
	trees map[models.LanguageCode]*models.ContentTree
}

// NewTable validates that every supported language has a complete tree
func NewTable(trees map[models.LanguageCode]*models.ContentTree) (*Table, error) {
	var problems []string
	for _, lang := range models.Languages {
		tree, ok := trees[lang]
		if !ok || tree == nil {
			problems = append(problems, fmt.Sprintf("%s: no content", lang))
			continue
		}
		if missing := tree.MissingFields(); len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s: missing %s", lang, strings.Join(missing, ", ")))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("incomplete localization: %s", strings.Join(problems, "; "))
	}

	copied := make(map[models.LanguageCode]*models.ContentTree, len(models.Languages))
	for _, lang := range models.Languages {
		copied[lang] = trees[lang]
	}
	return &Table{trees: copied}, nil
}

// Lookup returns the tree for a language
func (t *Table) Lookup(lang models.LanguageCode) (models.ContentTree, error) {
	tree, ok := t.trees[lang]
	if !ok {
		return models.ContentTree{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return *tree, nil
}

// NewStore returns a store over this table with the default language active
func (t *Table) NewStore() *Store {
	return &Store{
		table:  t,
		active: models.DefaultLanguage,
		subs:   make(map[int]func(models.LanguageCode)),
	}
}

// Store holds the active language and notifies subscribers when it changes
type Store struct {
	mu      sync.RWMutex
	table   *Table
	active  models.LanguageCode
	subs    map[int]func(models.LanguageCode)
	nextSub int
}

// ActiveLanguage returns the current selector
func (s *Store) ActiveLanguage() models.LanguageCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetLanguage overwrites the selector and notifies every subscriber, even
// when the language did not change. Codes outside the table are ignored.
func (s *Store) SetLanguage(code models.LanguageCode) {
	if !code.IsValid() {
		slog.Warn("ignoring unsupported language", "language", code)
		return
	}

	s.mu.Lock()
	s.active = code
	subs := make([]func(models.LanguageCode), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(code)
	}
}

// Content returns the tree for the active language
func (s *Store) Content() models.ContentTree {
	s.mu.RLock()
	lang := s.active
	s.mu.RUnlock()

	// The table is complete for every valid code, so this cannot fail.
	tree, _ := s.table.Lookup(lang)
	return tree
}

// Subscribe registers fn to run after every SetLanguage. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(models.LanguageCode)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
