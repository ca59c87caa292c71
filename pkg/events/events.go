package events

import (
	"sync"

	"github.com/fairtick/fairtick/pkg/types"
)

// Subscriber is a channel that receives emitted decisions
type Subscriber chan *types.Decision

// Broker distributes emitted decisions to subscribers
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	decisionCh  chan *types.Decision
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewBroker creates a new decision broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		decisionCh:  make(chan *types.Decision, 256),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

// Subscribe creates a new subscription and returns its channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 64)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription and closes its channel
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[sub] {
		delete(b.subscribers, sub)
		close(sub)
	}
}

// Publish hands a decision to the broker. Never blocks the caller beyond
// the broker buffer.
func (b *Broker) Publish(d *types.Decision) {
	select {
	case b.decisionCh <- d:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case d := <-b.decisionCh:
			b.broadcast(d)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(d *types.Decision) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- d:
		default:
			// Subscriber buffer full, skip
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
