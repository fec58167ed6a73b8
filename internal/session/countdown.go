package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SecondsUntil is the whole seconds left before expiry, never negative.
func SecondsUntil(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(diff / time.Second)
}

// FormatRemaining renders m:ss, or --:-- when the expiry is unknown.
func FormatRemaining(seconds int, known bool) string {
	if !known {
		return "--:--"
	}
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Countdown recomputes the remaining time on every tick until stopped.
type Countdown struct {
	expiry   time.Time
	now      func() time.Time
	interval time.Duration
	onTick   func(remaining int)

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewCountdown(expiry time.Time, now func() time.Time, interval time.Duration, onTick func(int)) *Countdown {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{expiry: expiry, now: now, interval: interval, onTick: onTick}
}

// Start ticks once immediately, then every interval until ctx is done or
// Stop is called.
func (c *Countdown) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	c.tick()

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

// Stop cancels the countdown and waits for the last tick to finish.
func (c *Countdown) Stop() {
	if c.cancel == nil {
		return
	}
	c.once.Do(func() {
		c.cancel()
		<-c.done
	})
}

func (c *Countdown) tick() {
	if c.onTick != nil {
		c.onTick(SecondsUntil(c.expiry, c.now()))
	}
}
