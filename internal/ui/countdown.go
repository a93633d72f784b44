package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/notadequate/remindd/internal/reminder"
)

// Countdown re-renders a live "time until" line once per second. It must
// be stopped when the owning view goes away so the ticker goroutine does
// not leak.
type Countdown struct {
	out     io.Writer
	target  time.Time
	label   string
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	mu      sync.Mutex
}

// NewCountdown creates a countdown toward target, writing to out.
func NewCountdown(out io.Writer, target time.Time, label string) *Countdown {
	return &Countdown{
		out:    out,
		target: target,
		label:  label,
	}
}

// Start begins the one-second refresh loop. Calling Start on a running
// countdown is a no-op.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.loop()
}

// Stop cancels the refresh loop and waits for it to exit.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopCh)
	done := c.done
	c.mu.Unlock()

	<-done
	fmt.Fprint(c.out, "\r\033[K")
}

func (c *Countdown) loop() {
	defer close(c.done)

	c.render(time.Now())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.render(now)
		}
	}
}

func (c *Countdown) render(now time.Time) {
	fmt.Fprintf(c.out, "\r\033[K%s %s", c.label, reminder.FormatTimeUntil(c.target, now))
}
