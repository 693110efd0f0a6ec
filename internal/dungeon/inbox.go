package dungeon

import "sync"

// Inbox is a buffered event queue between the controller and a front end.
// Push never blocks: when the buffer is full the oldest event is dropped.
type Inbox struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewInbox creates an inbox holding up to size events.
func NewInbox(size int) *Inbox {
	if size < 1 {
		size = 64
	}
	return &Inbox{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

// Push queues an event.
func (b *Inbox) Push(evt Event) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.events <- evt:
		return
	default:
	}

	// Full: drop the oldest and retry once.
	select {
	case <-b.events:
	default:
	}
	select {
	case b.events <- evt:
	default:
	}
}

// Events returns the channel the front end reads from.
func (b *Inbox) Events() <-chan Event {
	return b.events
}

// Done is closed once the inbox is closed.
func (b *Inbox) Done() <-chan struct{} {
	return b.done
}

// Close marks the inbox as finished. Safe to call more than once.
func (b *Inbox) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
