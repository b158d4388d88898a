package store

import "sync"

// Broker fans out change notifications to every open subscription.
// Subscribers re-read the store on each signal; the signal itself carries
// no payload.
type Broker struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

type Subscription struct {
	C      <-chan struct{}
	id     int
	broker *Broker
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan struct{})}
}

func (b *Broker) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := b.next
	b.next++
	b.subs[id] = ch

	return &Subscription{C: ch, id: id, broker: b}
}

// Publish signals every subscriber. A subscriber that has not drained its
// previous signal is not blocked on; one pending signal is enough since the
// full set is re-read anyway.
func (b *Broker) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close releases the subscription. Must be called on teardown.
func (s *Subscription) Close() {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if ch, ok := s.broker.subs[s.id]; ok {
		delete(s.broker.subs, s.id)
		close(ch)
	}
}
