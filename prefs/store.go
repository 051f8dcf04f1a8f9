package prefs

import (
	"github.com/Whale619/novel-site/common"
)

// Storage is flat string key-value storage scoped to a single reader, for
// example browser cookies.
type Storage interface {
	// Get returns stored value and whether it was present.
	Get(key string) (string, bool)
	// Set stores value. Errors are not recovered from by callers.
	Set(key, value string) error
}

// Keys names storage entries for each preference.
type Keys struct {
	FontSize string
	Theme    string
}

// Defaults are used when storage has no value.
type Defaults struct {
	FontSize common.FontTier
	Theme    common.Theme
}

// Store gives typed access to reader preferences kept in Storage. Values
// are never validated: whatever was written is returned back.
type Store struct {
	storage  Storage
	keys     Keys
	defaults Defaults
}

func NewStore(storage Storage, keys Keys, defaults Defaults) *Store {
	return &Store{storage: storage, keys: keys, defaults: defaults}
}

func (s *Store) get(key, def string) string {
	if v, ok := s.storage.Get(key); ok && len(v) > 0 {
		return v
	}
	return def
}

// FontSize returns stored tier as is, it may be unrecognized.
func (s *Store) FontSize() string {
	return s.get(s.keys.FontSize, string(s.defaults.FontSize))
}

func (s *Store) SetFontSize(tier string) error {
	return s.storage.Set(s.keys.FontSize, tier)
}

func (s *Store) Theme() common.Theme {
	return common.Theme(s.get(s.keys.Theme, string(s.defaults.Theme)))
}

func (s *Store) SetTheme(theme common.Theme) error {
	return s.storage.Set(s.keys.Theme, string(theme))
}

// MemoryStorage keeps values in a map. Not safe for concurrent use.
type MemoryStorage map[string]string

func NewMemoryStorage() MemoryStorage {
	return make(MemoryStorage)
}

func (m MemoryStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MemoryStorage) Set(key, value string) error {
	m[key] = value
	return nil
}
