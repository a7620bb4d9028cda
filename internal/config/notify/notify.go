// Package notify delivers settings change notifications.
//
// Observers subscribe either to every change or to a dotted section. A
// section observer also hears changes to settings nested beneath it, so
// subscribing to "editor" reports "editor.tabSize".
package notify

import (
	"sort"
	"sync"
)

// ChangeType is the kind of settings change.
type ChangeType int

const (
	// ChangeSet indicates a value was added or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change describes one changed setting.
type Change struct {
	// Path is the dotted setting name.
	Path string

	Type     ChangeType
	OldValue any
	NewValue any

	// Source names the origin, e.g. "file" or "session".
	Source string
}

// Observer is called for each change.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	id       uint64
	section  string
	observer Observer
}

// Notifier fans changes out to observers. Observers run synchronously on
// the goroutine that calls Notify, in subscription order.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
	closed  bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{entries: make(map[uint64]entry)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for a section and everything nested
// under it.
func (n *Notifier) SubscribePath(section string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.entries[id] = entry{id: id, section: section, observer: observer}
	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	matched := make([]entry, 0, len(n.entries))
	for _, e := range n.entries {
		if e.section == "" || e.section == change.Path || isParentPath(e.section, change.Path) {
			matched = append(matched, e)
		}
	}
	n.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })
	for _, e := range matched {
		e.observer(change)
	}
}

// NotifySet reports a set change.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyDelete reports a removed setting.
func (n *Notifier) NotifyDelete(path string, oldValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeDelete, OldValue: oldValue, Source: source})
}

// Close drops all observers and ignores further notifications.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.entries = make(map[uint64]entry)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, id)
}

// isParentPath reports whether parent is a dotted prefix of child.
func isParentPath(parent, child string) bool {
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}
