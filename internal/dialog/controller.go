// Package dialog holds the visibility state of the power-off dialog and the
// one-shot power-off sequence.
package dialog

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/studiowebux/eshutdown/internal/power"
)

// ErrAlreadyPoweringOff is returned by every InitiatePowerOff after the first
var ErrAlreadyPoweringOff = errors.New("power-off already initiated")

// Visibility is the on-screen state of the dialog
type Visibility int

const (
	Hidden Visibility = iota
	Visible
	Background
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// Flusher persists state that must survive the power-off
type Flusher interface {
	Flush() error
}

// FlushFunc adapts a function to Flusher
type FlushFunc func() error

func (f FlushFunc) Flush() error { return f() }

// Transition is passed to the observer on every visibility change
type Transition struct {
	From   Visibility
	To     Visibility
	Reason string
}

type namedFlusher struct {
	name string
	f    Flusher
}

// Controller is driven from the dispatch loop only.
type Controller struct {
	visibility Visibility
	width      int
	height     int
	raises     int

	sw       power.Switch
	flushers []namedFlusher
	observer func(Transition)
	syncFS   func()

	poweringOff bool
}

// New returns a hidden controller that powers off through sw
func New(sw power.Switch) *Controller {
	return &Controller{
		visibility: Hidden,
		sw:         sw,
		syncFS:     power.Sync,
	}
}

// OnTransition registers fn to be called after each visibility change
func (c *Controller) OnTransition(fn func(Transition)) {
	c.observer = fn
}

// AddFlusher registers f to run before the power-off request, in
// registration order.
func (c *Controller) AddFlusher(name string, f Flusher) {
	c.flushers = append(c.flushers, namedFlusher{name: name, f: f})
}

func (c *Controller) Visibility() Visibility { return c.visibility }

// Size returns the last recorded layout size
func (c *Controller) Size() (int, int) { return c.width, c.height }

// Raises counts BringToFrontOrShow calls on an already foremost dialog
func (c *Controller) Raises() int { return c.raises }

func (c *Controller) PoweringOff() bool { return c.poweringOff }

func (c *Controller) set(to Visibility, reason string) {
	from := c.visibility
	if from == to {
		return
	}
	c.visibility = to
	log.WithFields(log.Fields{"from": from, "to": to, "reason": reason}).Debug("dialog visibility changed")
	if c.observer != nil {
		c.observer(Transition{From: from, To: to, Reason: reason})
	}
}

// BringToFrontOrShow makes the dialog visible and foremost.
// Calling it on a dialog that is already foremost changes nothing.
func (c *Controller) BringToFrontOrShow() {
	if c.visibility == Visible {
		c.raises++
		return
	}
	c.set(Visible, "raise")
}

// Hide removes the dialog from the screen
func (c *Controller) Hide() {
	c.set(Hidden, "hide")
}

// Blur moves a foremost dialog to the background
func (c *Controller) Blur() {
	if c.visibility == Visible {
		c.set(Background, "blur")
	}
}

// Focus brings a background dialog back to the front
func (c *Controller) Focus() {
	if c.visibility == Background {
		c.set(Visible, "focus")
	}
}

// Resize hides the dialog, records the new size and restores the previous
// visibility.
func (c *Controller) Resize(width, height int) {
	prev := c.visibility
	c.set(Hidden, "resize")
	c.width, c.height = width, height
	c.set(prev, "resize")
}

// InitiatePowerOff flushes registered state, syncs filesystems and asks the
// power switch to turn the machine off. Only the first call does anything.
// The switch result is logged and returned, callers proceed the same way
// either way.
func (c *Controller) InitiatePowerOff(ctx context.Context) error {
	if c.poweringOff {
		log.Warn("power-off already in progress, ignoring repeated request")
		return ErrAlreadyPoweringOff
	}
	c.poweringOff = true
	return c.powerOff(ctx)
}

func (c *Controller) powerOff(ctx context.Context) error {
	for _, nf := range c.flushers {
		if err := nf.f.Flush(); err != nil {
			log.WithField("flusher", nf.name).WithError(err).Error("flush before power-off failed")
		}
	}
	if c.syncFS != nil {
		c.syncFS()
	}
	if c.sw == nil {
		return errors.New("no power switch configured")
	}

	log.WithField("method", c.sw.Name()).Info("requesting power-off")
	if err := c.sw.PowerOff(ctx); err != nil {
		log.WithField("method", c.sw.Name()).WithError(err).Error("power-off request failed")
		return err
	}
	return nil
}
