// Package notifier fans table lifecycle and error notifications out to the
// registered listeners.
package notifier

import (
	"sync"

	"github.com/leapstack-labs/leapview/internal/catalog"
)

// TableListener is notified when a table appears in or disappears from the
// tracked catalog.
type TableListener interface {
	TableAdded(t catalog.Table)
	TableDropped(t catalog.Table)
}

// ErrorListener is notified of errors reported by the engine, with the
// engine's message verbatim.
type ErrorListener interface {
	Error(message string)
}

// Listener receives every kind of notification.
type Listener interface {
	TableListener
	ErrorListener
}

// Funcs adapts plain functions to a Listener. Nil fields are ignored.
type Funcs struct {
	OnTableAdded   func(catalog.Table)
	OnTableDropped func(catalog.Table)
	OnError        func(string)
}

// TableAdded calls OnTableAdded.
func (f Funcs) TableAdded(t catalog.Table) {
	if f.OnTableAdded != nil {
		f.OnTableAdded(t)
	}
}

// TableDropped calls OnTableDropped.
func (f Funcs) TableDropped(t catalog.Table) {
	if f.OnTableDropped != nil {
		f.OnTableDropped(t)
	}
}

// Error calls OnError.
func (f Funcs) Error(message string) {
	if f.OnError != nil {
		f.OnError(message)
	}
}

// Notifier delivers each notification to all subscribed listeners, in
// subscription order, synchronously on the caller's goroutine.
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	l  Listener
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers l and returns a function that removes it again.
// Calling the returned function more than once is a no-op.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, subscription{id: id, l: l})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(id) })
	}
}

func (n *Notifier) remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.listeners {
		if s.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// snapshot copies the listener list so callbacks may (un)subscribe.
func (n *Notifier) snapshot() []subscription {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]subscription, len(n.listeners))
	copy(out, n.listeners)
	return out
}

// TableAdded broadcasts an added table.
func (n *Notifier) TableAdded(t catalog.Table) {
	for _, s := range n.snapshot() {
		s.l.TableAdded(t)
	}
}

// TableDropped broadcasts a dropped table.
func (n *Notifier) TableDropped(t catalog.Table) {
	for _, s := range n.snapshot() {
		s.l.TableDropped(t)
	}
}

// Error broadcasts an error message.
func (n *Notifier) Error(message string) {
	for _, s := range n.snapshot() {
		s.l.Error(message)
	}
}

var (
	_ Listener         = (*Notifier)(nil)
	_ catalog.Observer = (*Notifier)(nil)
	_ Listener         = Funcs{}
)
