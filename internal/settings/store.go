package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/storage"
)

// Store owns the current settings and persists every change.
type Store struct {
	mu      sync.Mutex
	kv      storage.KV
	current Settings
	logger  *slog.Logger
}

// Load rehydrates settings from kv. Absent, malformed, or provider-less
// records fall back to Default without an error.
func Load(ctx context.Context, kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger, current: Default()}

	data, ok, err := kv.Get(ctx, storage.SettingsKey)
	if err != nil {
		logger.Warn("failed to read settings, using defaults", "error", err)
		return s
	}
	if !ok {
		return s
	}

	// A record without a temperature keeps the default.
	parsed := Settings{Temperature: DefaultTemperature}
	if err := json.Unmarshal(data, &parsed); err != nil {
		logger.Warn("malformed settings record, using defaults", "error", err)
		return s
	}
	provider, err := ParseProvider(string(parsed.Provider))
	if err != nil {
		logger.Warn("settings record has no recognizable provider, using defaults", "provider", parsed.Provider)
		return s
	}
	parsed.Provider = provider

	s.current = parsed.normalize()
	return s
}

// Current returns a copy of the current settings.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetVariant replaces the settings with fresh defaults for p, carrying over
// only the temperature.
func (s *Store) SetVariant(ctx context.Context, p Provider) error {
	return s.update(ctx, func(cur Settings) (Settings, error) {
		if _, err := ParseProvider(string(p)); err != nil {
			return cur, err
		}
		return ForProvider(p, cur.Temperature), nil
	})
}

// UpdateField sets one field of the active variant. Fields that do not
// belong to the active variant are ignored and applied is false.
func (s *Store) UpdateField(ctx context.Context, name, value string) (applied bool, err error) {
	field, ok := CanonicalField(name)
	if !ok {
		return false, errors.Invalid("unknown settings field %q (use apiKey, baseUrl, or model)", name)
	}

	err = s.update(ctx, func(cur Settings) (Settings, error) {
		if !cur.HasField(field) {
			return cur, nil
		}
		applied = true
		cur.setField(field, value)
		return cur, nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// SetTemperature sets the temperature for either variant.
func (s *Store) SetTemperature(ctx context.Context, v float64) error {
	return s.update(ctx, func(cur Settings) (Settings, error) {
		if err := ValidateTemperature(v); err != nil {
			return cur, err
		}
		cur.Temperature = v
		return cur, nil
	})
}

// update applies fn and persists the result. The in-memory value only
// changes once the write succeeds.
func (s *Store) update(ctx context.Context, fn func(Settings) (Settings, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current)
	if err != nil {
		return err
	}
	if next == s.current {
		return nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return errors.StorageFailed("settings", err)
	}
	if err := s.kv.Put(ctx, storage.SettingsKey, data); err != nil {
		return errors.StorageFailed("settings", err)
	}

	s.current = next
	s.logger.Debug("settings saved", "provider", next.Provider)
	return nil
}
