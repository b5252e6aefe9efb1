// Package notify publishes store writes to in-process subscribers so clients
// can react to changes instead of polling.
package notify

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"mealtrack/internal/domain"
)

// Op names the kind of write that produced a Change.
type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Change describes one successful write. Keys is empty for OpClear.
type Change struct {
	Op   Op        `json:"op"`
	Keys []string  `json:"keys,omitempty"`
	At   time.Time `json:"at"`
}

// Touches reports whether the change may affect key.
func (c Change) Touches(key string) bool {
	return c.Op == OpClear || slices.Contains(c.Keys, key)
}

// Broker fans changes out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the change and the drop is counted.
type Broker struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]chan Change
	dropped atomic.Int64
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Change)}
}

// Subscribe registers a subscriber with the given channel buffer. The cancel
// func unregisters it and closes the channel; it is safe to call twice.
func (b *Broker) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers c to every subscriber with room in its buffer.
func (b *Broker) Publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because of full buffers.
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}

// Store decorates a KVStore and publishes every successful write.
type Store struct {
	domain.KVStore
	broker *Broker
	now    func() time.Time
}

var _ domain.KVStore = (*Store)(nil)

// Wrap returns a Store publishing writes on inner to broker.
func Wrap(inner domain.KVStore, broker *Broker) *Store {
	return &Store{KVStore: inner, broker: broker, now: time.Now}
}

func (s *Store) publish(op Op, keys ...string) {
	s.broker.Publish(Change{Op: op, Keys: keys, At: s.now()})
}

// Set stores value and publishes the key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.KVStore.Set(ctx, key, value); err != nil {
		return err
	}
	s.publish(OpSet, key)
	return nil
}

// Remove deletes key and publishes it.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.KVStore.Remove(ctx, key); err != nil {
		return err
	}
	s.publish(OpRemove, key)
	return nil
}

// MultiRemove deletes keys and publishes them as one change.
func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	if err := s.KVStore.MultiRemove(ctx, keys); err != nil {
		return err
	}
	if len(keys) > 0 {
		s.publish(OpRemove, slices.Clone(keys)...)
	}
	return nil
}

// Clear empties the store and publishes OpClear.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.KVStore.Clear(ctx); err != nil {
		return err
	}
	s.publish(OpClear)
	return nil
}
