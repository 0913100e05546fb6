package physics

import "time"

// DefaultCooldown is how long a pair stays ineligible after a resolved collision.
const DefaultCooldown = 500 * time.Millisecond

type pairKey struct {
	self, partner uint64
}

// Cooldowns remembers when each ordered pair of objects last collided. A
// collision records both (a, b) and (b, a).
type Cooldowns struct {
	window time.Duration
	last   map[pairKey]time.Time
}

func NewCooldowns(window time.Duration) *Cooldowns {
	return &Cooldowns{window: window, last: make(map[pairKey]time.Time)}
}

func (c *Cooldowns) Window() time.Duration {
	return c.window
}

// Active reports whether either side is still cooling down from the other.
func (c *Cooldowns) Active(a, b uint64, now time.Time) bool {
	return c.coolingDown(pairKey{a, b}, now) || c.coolingDown(pairKey{b, a}, now)
}

func (c *Cooldowns) coolingDown(k pairKey, now time.Time) bool {
	at, ok := c.last[k]
	return ok && now.Sub(at) < c.window
}

func (c *Cooldowns) Record(a, b uint64, now time.Time) {
	c.last[pairKey{a, b}] = now
	c.last[pairKey{b, a}] = now
}

// Forget drops every entry involving uid.
func (c *Cooldowns) Forget(uid uint64) {
	for k := range c.last {
		if k.self == uid || k.partner == uid {
			delete(c.last, k)
		}
	}
}

// Prune drops entries whose window has passed.
func (c *Cooldowns) Prune(now time.Time) {
	for k, at := range c.last {
		if now.Sub(at) >= c.window {
			delete(c.last, k)
		}
	}
}

func (c *Cooldowns) Len() int {
	return len(c.last)
}
