package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// Memory is an in-process Store with a fixed TTL and a maximum entry count.
// Expired entries are dropped lazily on read. When full, the oldest inserted
// entry is evicted first.
type Memory[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	items   map[string]*list.Element
	now     func() time.Time
}

func NewMemory[T any](ttl time.Duration, maxSize int) *Memory[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Memory[T]{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[string]*list.Element),
		now:     time.Now,
	}
}

func (m *Memory[T]) Get(_ context.Context, key string) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	el, ok := m.items[key]
	if !ok {
		return zero, false, nil
	}
	e := el.Value.(*entry[T])
	if !m.now().Before(e.expiresAt) {
		m.remove(el)
		return zero, false, nil
	}
	return e.value, true, nil
}

// Set stores value with a fresh TTL. Re-setting a key counts as a new insertion.
func (m *Memory[T]) Set(_ context.Context, key string, value T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		m.remove(el)
	}
	m.items[key] = m.order.PushBack(&entry[T]{
		key:       key,
		value:     value,
		expiresAt: m.now().Add(m.ttl),
	})
	for m.order.Len() > m.maxSize {
		m.remove(m.order.Front())
	}
	return nil
}

func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory[T]) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*entry[T]).key)
}
