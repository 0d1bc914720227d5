package channels

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Latest is a mailbox of depth one between a producer that must never block
// (an audio callback, say) and a single consumer. When the consumer falls
// behind, the oldest pending value is discarded so only the newest waits.
type Latest[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool

	offered atomic.Int64
	dropped atomic.Int64
}

// NewLatest creates an open mailbox.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{ch: make(chan T, 1)} //nolint:exhaustruct // counters zero
}

// Offer queues msg, replacing any value the consumer has not taken yet.
// It never blocks. Returns ErrChannelClosed after Close.
func (l *Latest[T]) Offer(msg T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrChannelClosed
	}

	l.offered.Add(1)

	err := SendNonBlock(l.ch, msg)
	if !errors.Is(err, ErrChannelFull) {
		return err
	}

	// Senders are serialized by mu, so after evicting the stale value
	// there is room for msg.
	select {
	case <-l.ch:
		l.dropped.Add(1)
	default:
	}

	return SendNonBlock(l.ch, msg)
}

// OfferWithin gives the consumer up to wait to take the pending value
// before msg replaces it. A non-positive wait behaves like Offer. Close
// blocks while an OfferWithin is waiting.
func (l *Latest[T]) OfferWithin(msg T, wait time.Duration) error {
	if wait <= 0 {
		return l.Offer(msg)
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrChannelClosed
	}

	err := SendWithTimeout(l.ch, msg, wait)
	if err == nil {
		l.offered.Add(1)
	}
	l.mu.Unlock()

	if errors.Is(err, ErrChannelTimeout) {
		return l.Offer(msg)
	}

	return err
}

// C returns the receive side. It is closed by Close.
func (l *Latest[T]) C() <-chan T {
	return l.ch
}

// Close stops accepting values and closes C. A pending value stays
// readable. Safe to call more than once.
func (l *Latest[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	close(l.ch)
}

// LatestStats counts what passed through a Latest mailbox.
type LatestStats struct {
	Offered int64
	Dropped int64
}

// Stats returns the offered and dropped counts so far.
func (l *Latest[T]) Stats() LatestStats {
	return LatestStats{
		Offered: l.offered.Load(),
		Dropped: l.dropped.Load(),
	}
}
