package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/manuphil/balldash/internal/core/domain"
	"github.com/manuphil/balldash/internal/metrics"
)

// CountdownState is the engine state: Idle until a first target is
// known, Counting while ticking toward it, Expired at the instant the
// target is reached.
type CountdownState int

const (
	CountdownIdle CountdownState = iota
	CountdownCounting
	CountdownExpired
)

func (s CountdownState) String() string {
	switch s {
	case CountdownCounting:
		return "counting"
	case CountdownExpired:
		return "expired"
	default:
		return "idle"
	}
}

// Remaining is the displayed time-left breakdown.
type Remaining struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Countdown recomputes the remaining time toward an absolute target
// every tick. Each tick derives the breakdown from the target timestamp
// and the current wall clock, never by decrementing a counter, so a
// suspended and resumed process cannot desynchronize the display.
type Countdown struct {
	drawType domain.DrawType
	sched    *Schedule
	onExpire func()
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	state  CountdownState
	target time.Time
}

// NewCountdown creates an idle countdown for a draw type. onExpire is
// invoked once per expiry, after the next target has been derived; it
// is the hook that triggers a background refetch of the aggregator.
func NewCountdown(drawType domain.DrawType, sched *Schedule, onExpire func(), log *slog.Logger) *Countdown {
	return &Countdown{
		drawType: drawType,
		sched:    sched,
		onExpire: onExpire,
		now:      time.Now,
		log:      log,
	}
}

// SetTarget installs a new target and moves to Counting.
func (c *Countdown) SetTarget(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	c.state = CountdownCounting
}

// Target returns the current target timestamp.
func (c *Countdown) Target() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// State returns the current engine state.
func (c *Countdown) State() CountdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the time-left breakdown at the current wall clock.
func (c *Countdown) Remaining() Remaining {
	c.mu.Lock()
	target := c.target
	c.mu.Unlock()
	return breakdown(target.Sub(c.now()))
}

// Tick advances the state machine one step and returns the display
// breakdown for this tick. On reaching zero it transitions to Expired
// exactly once, derives the next target from the shared schedule rules,
// fires the expiry hook, and resumes Counting toward the new target.
func (c *Countdown) Tick() (Remaining, CountdownState) {
	c.mu.Lock()
	if c.state == CountdownIdle {
		c.mu.Unlock()
		return Remaining{}, CountdownIdle
	}

	now := c.now()
	left := c.target.Sub(now)
	if left > 0 {
		c.state = CountdownCounting
		c.mu.Unlock()
		return breakdown(left), CountdownCounting
	}

	// Expiry: exactly one transition per reached target.
	c.state = CountdownExpired
	c.target = c.sched.Next(c.drawType, now)
	onExpire := c.onExpire
	c.mu.Unlock()

	metrics.CountdownExpiries.WithLabelValues(string(c.drawType)).Inc()
	c.log.Debug("Countdown expired", "draw_type", c.drawType)
	if onExpire != nil {
		onExpire()
	}

	return Remaining{}, CountdownExpired
}

// Run drives the countdown with a one-second ticker until ctx is done.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func breakdown(d time.Duration) Remaining {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return Remaining{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
