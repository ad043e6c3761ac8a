package tui

import (
	"sync"

	"github.com/leapstack-labs/leapview/internal/catalog"
)

type eventKind int

const (
	eventAdded eventKind = iota
	eventDropped
	eventError
)

type event struct {
	kind    eventKind
	table   catalog.Table
	message string
}

// eventBuffer collects session notifications while a statement runs in a
// command goroutine; Update drains them with the statement's result.
type eventBuffer struct {
	mu     sync.Mutex
	events []event
}

func (b *eventBuffer) push(e event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *eventBuffer) TableAdded(t catalog.Table) {
	b.push(event{kind: eventAdded, table: t})
}

func (b *eventBuffer) TableDropped(t catalog.Table) {
	b.push(event{kind: eventDropped, table: t})
}

func (b *eventBuffer) Error(message string) {
	b.push(event{kind: eventError, message: message})
}

func (b *eventBuffer) drain() []event {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}
