package kernel

import (
	"context"
	"time"
)

// Driver paces ticks between Kernel.Tick calls. The per-tick semantics in
// spec §5 are identical regardless of driver: the contract is expressed in
// ticks, and how wall-clock time maps onto them is pluggable.
type Driver interface {
	// Wait blocks until the next tick should run, or ctx is done.
	Wait(ctx context.Context) error
}

// WallClockDriver sleeps a fixed duration between ticks, for real-time runs.
type WallClockDriver struct {
	Interval time.Duration
}

func (d WallClockDriver) Wait(ctx context.Context) error {
	timer := time.NewTimer(d.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ManualDriver advances as fast as possible, for tests and discrete-event
// replay where ticks are not paced against real time.
type ManualDriver struct{}

func (ManualDriver) Wait(ctx context.Context) error {
	return ctx.Err()
}
