// Package history keeps a bounded, newest-first record of optimizations.
package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/instruction"
	"github.com/HartBrook/sharpen/internal/storage"
)

// Capacity is the maximum number of entries kept.
const Capacity = 100

// Entry is one optimization result. Only IsFavorite changes after creation.
type Entry struct {
	ID              int64              `json:"id"`
	OriginalPrompt  string             `json:"originalPrompt"`
	OptimizedPrompt string             `json:"optimizedPrompt"`
	TargetModel     instruction.Target `json:"targetLlm"`
	IsFavorite      bool               `json:"isFavorite"`
}

// CreatedAt returns the creation time encoded in the id.
func (e Entry) CreatedAt() time.Time {
	return time.UnixMilli(e.ID)
}

// View selects which entries Filter considers.
type View string

const (
	ViewHistory   View = "history"
	ViewFavorites View = "favorites"
)

// Store owns the collection and persists it whole on every mutation.
// Mutations are serialized, so concurrent appends never lose an entry.
type Store struct {
	mu      sync.Mutex
	kv      storage.KV
	entries []Entry
	lastID  int64
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for entry ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Load rehydrates the collection from kv. Absent or malformed records yield
// an empty collection without an error.
func Load(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(ctx, storage.HistoryKey)
	if err != nil {
		s.logger.Warn("failed to read history, starting empty", "error", err)
		return s
	}
	if !ok {
		return s
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("malformed history record, starting empty", "error", err)
		return s
	}
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}

	s.entries = entries
	for _, e := range entries {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	return s
}

// Record creates an entry with a fresh id and appends it.
func (s *Store) Record(ctx context.Context, original, optimized string, target instruction.Target) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		ID:              s.nextID(),
		OriginalPrompt:  original,
		OptimizedPrompt: optimized,
		TargetModel:     target,
	}
	if err := s.appendLocked(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Append prepends e, evicting the oldest entry past Capacity. An entry with
// a zero id is given a fresh one; an id already in the store is rejected.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == 0 {
		e.ID = s.nextID()
	} else if s.indexLocked(e.ID) >= 0 {
		return Entry{}, errors.Invalid("history entry %d already exists", e.ID)
	}
	if err := s.appendLocked(ctx, e); err != nil {
		return Entry{}, err
	}
	if e.ID > s.lastID {
		s.lastID = e.ID
	}
	return e, nil
}

func (s *Store) appendLocked(ctx context.Context, e Entry) error {
	n := min(len(s.entries)+1, Capacity)
	next := make([]Entry, 0, n)
	next = append(next, e)
	next = append(next, s.entries[:n-1]...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.entries = next
	s.logger.Debug("history entry added", "id", e.ID, "target", e.TargetModel, "size", len(next))
	return nil
}

// ToggleFavorite flips the favorite flag of the entry with id.
func (s *Store) ToggleFavorite(ctx context.Context, id int64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Entry{}, errors.EntryNotFound(id)
	}

	next := append([]Entry(nil), s.entries...)
	next[idx].IsFavorite = !next[idx].IsFavorite

	if err := s.persist(ctx, next); err != nil {
		return Entry{}, err
	}
	s.entries = next
	return next[idx], nil
}

// Filter returns the entries in view whose original or optimized text
// contains term, ignoring case. An empty term matches everything.
func (s *Store) Filter(view View, term string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(term)
	var out []Entry
	for _, e := range s.entries {
		if view == ViewFavorites && !e.IsFavorite {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.OriginalPrompt), needle) &&
			!strings.Contains(strings.ToLower(e.OptimizedPrompt), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Get returns the entry with id.
func (s *Store) Get(id int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.entries[idx], true
	}
	return Entry{}, false
}

// Entries returns a copy of the collection, newest first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ParseView validates a view name.
func ParseView(v string) (View, error) {
	switch View(strings.ToLower(v)) {
	case ViewHistory, "":
		return ViewHistory, nil
	case ViewFavorites:
		return ViewFavorites, nil
	}
	return "", errors.Invalid("unknown view %q (use history or favorites)", v)
}

// nextID returns a millisecond timestamp, bumped past the last issued id so
// ids stay strictly increasing.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexLocked(id int64) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return errors.StorageFailed("history", err)
	}
	if err := s.kv.Put(ctx, storage.HistoryKey, data); err != nil {
		return errors.StorageFailed("history", err)
	}
	return nil
}
