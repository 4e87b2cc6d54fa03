// Package shutdown adapts the reference process's emergency-stop control
// into the simulation kernel's graceful-shutdown hook: SIGINT/SIGTERM and
// a pollable stop file both trigger the same OnStop callback chain so the
// kernel can finish its in-progress tick and flush publishers before
// exiting.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// Config configures a Controller.
type Config struct {
	// StopFile, if set, is polled for existence as an out-of-band stop
	// trigger (useful when the process has no attached terminal).
	StopFile string

	// PollInterval controls how often StopFile is checked.
	PollInterval time.Duration

	// EnableSignalHandlers installs SIGINT/SIGTERM handling.
	EnableSignalHandlers bool
}

// Controller coordinates graceful shutdown triggers and their callbacks.
type Controller struct {
	stopFile       string
	stopCh         chan struct{}
	stopped        bool
	mutex          sync.RWMutex
	callbacks      []func()
	pollInterval   time.Duration
	signalHandlers bool
	log            zerolog.Logger
}

// New creates a Controller. log is tagged with a "component=shutdown" field.
func New(cfg Config, log zerolog.Logger) *Controller {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 1 * time.Second
	}

	return &Controller{
		stopFile:       cfg.StopFile,
		stopCh:         make(chan struct{}),
		callbacks:      make([]func(), 0),
		pollInterval:   cfg.PollInterval,
		signalHandlers: cfg.EnableSignalHandlers,
		log:            log.With().Str("component", "shutdown").Logger(),
	}
}

// Start begins monitoring for stop conditions in the background. It
// returns immediately; monitoring goroutines exit when ctx is done.
func (c *Controller) Start(ctx context.Context) {
	if c.stopFile != "" {
		go c.watchStopFile(ctx)
	}
	if c.signalHandlers {
		go c.watchSignals(ctx)
	}
}

func (c *Controller) watchStopFile(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.checkStopFile() {
				c.log.Warn().Str("stop_file", c.stopFile).Msg("stop file detected")
				c.triggerStop("stop file detected")
				return
			}
		}
	}
}

func (c *Controller) watchSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		signal.Stop(sigCh)
	case sig := <-sigCh:
		c.log.Warn().Str("signal", sig.String()).Msg("stop signal received")
		c.triggerStop("signal: " + sig.String())
		signal.Stop(sigCh)
	}
}

func (c *Controller) checkStopFile() bool {
	_, err := os.Stat(c.stopFile)
	return err == nil
}

func (c *Controller) triggerStop(reason string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stopCh)

	c.log.Warn().Str("reason", reason).Msg("shutdown triggered")
	for i, callback := range c.callbacks {
		c.log.Debug().Int("callback", i+1).Int("total", len(c.callbacks)).Msg("running shutdown callback")
		callback()
	}
}

// Stop manually triggers shutdown with the given reason.
func (c *Controller) Stop(reason string) {
	c.triggerStop(reason)
}

// IsStopped reports whether shutdown has been triggered.
func (c *Controller) IsStopped() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.stopped
}

// StopChannel returns a channel closed when shutdown is triggered.
func (c *Controller) StopChannel() <-chan struct{} {
	return c.stopCh
}

// OnStop registers a callback run (in registration order) when shutdown
// triggers. Safe to call before or after Start.
func (c *Controller) OnStop(callback func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.callbacks = append(c.callbacks, callback)
}

// CreateStopFile writes the configured stop file, used by tests and
// operator tooling to trigger a stop out-of-band.
func (c *Controller) CreateStopFile() error {
	f, err := os.Create(c.stopFile)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString("stop requested at " + time.Now().Format(time.RFC3339) + "\n")
	return err
}

// RemoveStopFile removes the configured stop file, if present.
func (c *Controller) RemoveStopFile() error {
	err := os.Remove(c.stopFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
