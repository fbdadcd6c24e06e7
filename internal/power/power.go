// Package power issues the operating-system power-off request.
//
// The request is opaque to the rest of the daemon: callers flush their own
// state first, call PowerOff once, and do not act on the result beyond
// logging it.
package power

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	logindName      = "org.freedesktop.login1"
	logindPath      = "/org/freedesktop/login1"
	logindInterface = "org.freedesktop.login1.Manager"

	MethodAuto    = "auto"
	MethodLogind  = "logind"
	MethodCommand = "command"
	MethodDryRun  = "dry-run"
)

// Switch turns the machine off
type Switch interface {
	PowerOff(ctx context.Context) error
	Name() string
}

// New returns the switch for a configured method name
func New(method string) (Switch, error) {
	switch strings.ToLower(method) {
	case "", MethodAuto:
		return Chain{&Logind{}, &Command{}}, nil
	case MethodLogind:
		return &Logind{}, nil
	case MethodCommand:
		return &Command{}, nil
	case MethodDryRun:
		return &DryRun{}, nil
	default:
		return nil, fmt.Errorf("unknown power method %q (want %s, %s, %s or %s)",
			method, MethodAuto, MethodLogind, MethodCommand, MethodDryRun)
	}
}

// Sync commits filesystem caches to disk
func Sync() {
	unix.Sync()
}

// Logind asks systemd-logind over the system bus
type Logind struct {
	// Interactive lets polkit prompt for authorization
	Interactive bool
}

func (l *Logind) Name() string { return MethodLogind }

func (l *Logind) PowerOff(ctx context.Context) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("failed to connect to the system bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(logindName, dbus.ObjectPath(logindPath))
	call := obj.CallWithContext(ctx, logindInterface+".PowerOff", 0, l.Interactive)
	if call.Err != nil {
		return fmt.Errorf("failed calling %s.PowerOff: %w", logindInterface, call.Err)
	}
	return nil
}

// Command runs an external program, poweroff by default
type Command struct {
	Path string
	Args []string
}

func (c *Command) Name() string { return MethodCommand }

func (c *Command) PowerOff(ctx context.Context) error {
	path := c.Path
	if path == "" {
		path = "poweroff"
	}
	out, err := exec.CommandContext(ctx, path, c.Args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (%s)", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// DryRun only logs the request
type DryRun struct {
	Calls int
}

func (d *DryRun) Name() string { return MethodDryRun }

func (d *DryRun) PowerOff(ctx context.Context) error {
	d.Calls++
	log.Warn("dry run: power-off requested, not executing")
	return nil
}

// Chain tries each switch in order until one succeeds
type Chain []Switch

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (c Chain) PowerOff(ctx context.Context) error {
	var errs []error
	for _, s := range c {
		err := s.PowerOff(ctx)
		if err == nil {
			return nil
		}
		log.WithField("method", s.Name()).WithError(err).Warn("power-off method failed, trying next")
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return errors.New("no power-off method configured")
	}
	return errors.Join(errs...)
}
