// Package clock abstracts "current wall-clock time in the tracker's
// timezone". Every duration calculation in the system goes through a
// Clock so tests can pin time exactly.
package clock

import (
	"sync"
	"time"
)

// All session and heartbeat arithmetic runs in IST (UTC+5:30).
var _istLocation = time.FixedZone("IST", 5*60*60+30*60)

type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type System struct {
	loc *time.Location
}

func NewSystem() *System {
	return &System{loc: _istLocation}
}

func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *System) Location() *time.Location {
	return c.loc
}

// Fake is a settable clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now.In(_istLocation)}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) Location() *time.Location {
	return _istLocation
}

func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.In(_istLocation)
}

func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
