package clock

import (
	"sync"
	"time"
)

// FakeClock is a deterministic Clock. Time only moves when Advance is called.
// Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*fakeTicker
}

type fakeTicker struct {
	channel  chan time.Time
	next     time.Time
	interval time.Duration
	stopped  bool
}

// Fake returns a FakeClock initialized to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ticker := &fakeTicker{
		channel:  make(chan time.Time, 1),
		next:     c.current.Add(d),
		interval: d,
	}
	c.tickers = append(c.tickers, ticker)
	return &Ticker{
		C: ticker.channel,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			ticker.stopped = true
		},
	}
}

// Advance moves the clock forward by d and fires every ticker whose
// deadline falls within the new time. Sends never block.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	for _, ticker := range c.tickers {
		for !ticker.stopped && !ticker.next.After(c.current) {
			select {
			case ticker.channel <- c.current:
			default:
			}
			ticker.next = ticker.next.Add(ticker.interval)
		}
	}
}
