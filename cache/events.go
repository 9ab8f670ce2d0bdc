package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/sprintertech/intent-ledger/ledger"
)

const (
	EVENT_TTL = time.Minute * 10
)

// EventCache keeps recent lifecycle events per intent and fans them out to
// subscribers of the SSE event stream. Events older than EVENT_TTL are
// dropped; indexers needing the full history consume the NATS stream.
type EventCache struct {
	eventCache *ttlcache.Cache[string, []ledger.Event]

	mu          sync.Mutex
	subscribers map[string][]chan ledger.Event
}

func NewEventCache(ctx context.Context, eventChn <-chan ledger.Event) *EventCache {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []ledger.Event](EVENT_TTL),
	)

	ec := &EventCache{
		eventCache:  cache,
		subscribers: make(map[string][]chan ledger.Event),
	}

	go cache.Start()
	go ec.watch(ctx, eventChn)
	return ec
}

// Events returns the cached events for an intent.
func (c *EventCache) Events(id uint64) ([]ledger.Event, error) {
	events := c.eventCache.Get(key(id))
	if events == nil {
		return nil, fmt.Errorf("no events found for intent %d", id)
	}

	return events.Value(), nil
}

// Subscribe delivers cached and future events for an intent on the given
// channel until ctx is done.
func (c *EventCache) Subscribe(ctx context.Context, id uint64, eventChn chan ledger.Event) {
	c.mu.Lock()
	cached := []ledger.Event{}
	if events := c.eventCache.Get(key(id)); events != nil {
		cached = events.Value()
	}
	c.subscribers[key(id)] = append(c.subscribers[key(id)], eventChn)
	c.mu.Unlock()

	go func() {
		for _, e := range cached {
			select {
			case eventChn <- e:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
		c.unsubscribe(key(id), eventChn)
	}()
}

func (c *EventCache) watch(ctx context.Context, eventChn <-chan ledger.Event) {
	for {
		select {
		case e := <-eventChn:
			{
				if e.Kind == ledger.SolverUpdatedEvent {
					continue
				}

				c.mu.Lock()
				events := []ledger.Event{}
				if cached := c.eventCache.Get(key(e.ID)); cached != nil {
					events = cached.Value()
				}
				c.eventCache.Set(key(e.ID), append(events, e), ttlcache.DefaultTTL)

				for _, subscriber := range c.subscribers[key(e.ID)] {
					select {
					case subscriber <- e:
					default:
					}
				}
				c.mu.Unlock()
			}
		case <-ctx.Done():
			{
				c.eventCache.Stop()
				return
			}
		}
	}
}

func (c *EventCache) unsubscribe(key string, eventChn chan ledger.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subscribers := c.subscribers[key]
	for i, subscriber := range subscribers {
		if subscriber == eventChn {
			c.subscribers[key] = append(subscribers[:i], subscribers[i+1:]...)
			break
		}
	}
}

func key(id uint64) string {
	return strconv.FormatUint(id, 10)
}
