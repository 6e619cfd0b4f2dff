package pubsub

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultChannelBufferSize = 64

// Broker fan-outs events of type T to any number of subscribers.
// Publishing never blocks the caller; a subscriber that cannot keep up
// for more than two seconds loses events.
type Broker[T any] struct {
	subs     map[chan Event[T]]context.CancelFunc
	mu       sync.RWMutex
	isClosed bool
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]context.CancelFunc),
	}
}

// Subscribe returns a channel that receives every event published after
// this call. The subscription ends when ctx is cancelled or the broker
// shuts down; the channel is closed in both cases.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed {
		closed := make(chan Event[T])
		close(closed)
		return closed
	}

	subCtx, subCancel := context.WithCancel(ctx)
	ch := make(chan Event[T], defaultChannelBufferSize)
	b.subs[ch] = subCancel

	go func() {
		<-subCtx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			close(ch)
			delete(b.subs, ch)
		}
	}()

	return ch
}

func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed {
		slog.Warn("publish on closed broker", "type", eventType)
		return
	}

	event := Event[T]{Type: eventType, Payload: payload}
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Subscriber is slow. Retry off the publisher's goroutine so the
			// publisher never blocks; drop after a timeout. The read lock is
			// held across the send: Shutdown and the ctx-cancel path close
			// channels under the write lock, so a channel can never be
			// closed while a retry send is in flight.
			go func(ch chan Event[T]) {
				b.mu.RLock()
				defer b.mu.RUnlock()
				if b.isClosed {
					return
				}
				if _, ok := b.subs[ch]; !ok {
					return
				}
				select {
				case ch <- event:
				case <-time.After(2 * time.Second):
					slog.Warn("dropped event for slow subscriber", "type", event.Type)
				}
			}(ch)
		}
	}
}

// Shutdown closes every subscriber channel and rejects further use.
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isClosed {
		return
	}
	b.isClosed = true
	for ch, cancel := range b.subs {
		cancel()
		close(ch)
		delete(b.subs, ch)
	}
}

func (b *Broker[T]) GetSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
