package storage

import (
	"context"
	"sync"
	"time"
)

type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

// LocalBroker diffuse les messages aux abonnés du même processus.
// Un abonné trop lent perd des messages plutôt que de bloquer l'émetteur.
type LocalBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan string
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[int]chan string)}
}

func (b *LocalBroker) Publish(_ context.Context, channel, msg string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[channel] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(_ context.Context, channel string) (<-chan string, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan string, 8)
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]chan string)
	}
	b.subs[channel][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[channel], id)
			if len(b.subs[channel]) == 0 {
				delete(b.subs, channel)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

type window struct {
	n       int64
	expires time.Time
}

// LocalCounter compte en mémoire du processus.
type LocalCounter struct {
	mu   sync.Mutex
	now  func() time.Time
	hits map[string]window
}

func NewLocalCounter() *LocalCounter {
	return &LocalCounter{now: time.Now, hits: make(map[string]window)}
}

func (c *LocalCounter) Incr(_ context.Context, key string, d time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	w, ok := c.hits[key]
	if !ok || !now.Before(w.expires) {
		w = window{expires: now.Add(d)}
	}
	w.n++
	c.hits[key] = w

	if len(c.hits) > 10000 {
		for k, v := range c.hits {
			if !now.Before(v.expires) {
				delete(c.hits, k)
			}
		}
	}
	return w.n, nil
}
