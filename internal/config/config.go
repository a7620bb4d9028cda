// Package config provides layered settings addressed by dotted keys.
//
// Values resolve from three layers, lowest to highest priority: built-in
// defaults, the settings file, and session overrides made with Set. Every
// effective change is published through a notify.Notifier, one Change per
// leaf key.
package config

import (
	"errors"
	"sync"

	"github.com/dshills/cursorcolumn/internal/config/loader"
	"github.com/dshills/cursorcolumn/internal/config/notify"
)

// Change sources.
const (
	SourceFile    = "file"
	SourceSession = "session"
)

// Store holds the merged settings.
type Store struct {
	mu       sync.RWMutex
	defaults map[string]any
	file     map[string]any
	session  map[string]any
	merged   map[string]any

	path     string
	fsys     loader.FileSystem
	loader   *loader.FileLoader
	notifier *notify.Notifier
}

// Option configures a Store.
type Option func(*Store)

// WithPath sets the settings file. Its extension selects the format.
func WithPath(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// WithFileSystem replaces the file system used for the settings file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// New creates a store. The settings file is not read until Load.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		defaults: Defaults(),
		file:     map[string]any{},
		session:  map[string]any{},
		fsys:     loader.OSFS{},
		notifier: notify.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.path != "" {
		l, err := loader.NewFileLoaderWithFS(s.fsys, s.path)
		if err != nil {
			return nil, err
		}
		s.loader = l
	}
	s.remerge()
	return s, nil
}

// Path returns the settings file path, or "" if there is none.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file is not an error.
func (s *Store) Load() error {
	_, err := s.reload()
	return err
}

// Reload re-reads the settings file and publishes a Change for every
// effective difference. On error the previous settings stay in effect.
func (s *Store) Reload() error {
	changes, err := s.reload()
	if err != nil {
		return err
	}
	s.publish(changes, SourceFile)
	return nil
}

func (s *Store) reload() ([]diffEntry, error) {
	if s.loader == nil {
		return nil, nil
	}
	data, err := s.loader.Load()
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.merged
	s.file = normalizeTree(data)
	s.remerge()
	return diff(old, s.merged), nil
}

// Save writes the file and session layers to the settings file. Session
// overrides become part of the file layer.
func (s *Store) Save() error {
	if s.loader == nil {
		return ErrNoFile
	}

	s.mu.Lock()
	data := deepMerge(cloneValue(s.file).(map[string]any), s.session)
	s.mu.Unlock()

	if err := s.loader.Save(data); err != nil {
		return err
	}

	s.mu.Lock()
	s.file = data
	s.session = map[string]any{}
	s.remerge()
	s.mu.Unlock()
	return nil
}

// Set overrides a setting for the session. Observers hear about it only
// when the effective value changes.
func (s *Store) Set(path string, value any) error {
	value = normalizeValue(value)

	s.mu.Lock()
	old := s.merged
	if err := setPath(s.session, path, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.remerge()
	changes := diff(old, s.merged)
	s.mu.Unlock()

	s.publish(changes, SourceSession)
	return nil
}

// Get returns the effective value at path.
func (s *Store) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPath(s.merged, path)
}

// Bool returns a boolean setting.
func (s *Store) Bool(path string) (bool, bool) {
	v, ok := s.Get(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Float returns a numeric setting.
func (s *Store) Float(path string) (float64, bool) {
	v, ok := s.Get(path)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// String returns a string setting.
func (s *Store) String(path string) (string, bool) {
	v, ok := s.Get(path)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// StringMap returns the string leaves of a table.
func (s *Store) StringMap(path string) map[string]string {
	v, ok := s.Get(path)
	if !ok {
		return map[string]string{}
	}
	table, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(table))
	for k, item := range table {
		if str, ok := item.(string); ok {
			out[k] = str
		}
	}
	return out
}

// Subscribe registers an observer for every change.
func (s *Store) Subscribe(observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer)
}

// Close drops all observers.
func (s *Store) Close() {
	s.notifier.Close()
}

// publish reports each leaf difference to observers. Callers must not
// hold s.mu.
func (s *Store) publish(changes []diffEntry, source string) {
	for _, c := range changes {
		if c.removed {
			s.notifier.NotifyDelete(c.path, c.oldValue, source)
			continue
		}
		s.notifier.NotifySet(c.path, c.oldValue, c.newValue, source)
	}
}

// remerge rebuilds the effective tree. Callers hold s.mu.
func (s *Store) remerge() {
	merged := cloneValue(s.defaults).(map[string]any)
	merged = deepMerge(merged, s.file)
	merged = deepMerge(merged, s.session)
	s.merged = merged
}

func normalizeTree(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if nested, ok := v.(map[string]any); ok {
			out[k] = normalizeTree(nested)
			continue
		}
		out[k] = normalizeValue(v)
	}
	return out
}

// IsParseError reports whether err came from a malformed settings file.
func IsParseError(err error) bool {
	var perr *loader.ParseError
	return errors.As(err, &perr)
}
