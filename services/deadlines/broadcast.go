package deadlines

import (
	"sync"

	"github.com/google/uuid"
)

// broadcaster fans out "data changed" pings to any attached listeners.
// Delivery is advisory and fire-and-forget: a slow listener misses the
// ping rather than blocking a write, and self-heals on its next read.
type broadcaster struct {
	mu   sync.Mutex
	subs map[string]chan struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: map[string]chan struct{}{}}
}

func (b *broadcaster) subscribe() (string, <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan struct{}, 1)
	b.subs[id] = ch
	return id, ch
}

func (b *broadcaster) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

func (b *broadcaster) notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
