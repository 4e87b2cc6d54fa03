// Package bus defines the event/telemetry publisher contract (C7) and a
// fan-out combinator over multiple concrete sinks.
package bus

import (
	"context"
	"errors"

	"github.com/flexshop/jobshop-sim/pkg/events"
)

// Publisher is a write-only sink for job-shop events, machine status
// snapshots, and telemetry samples. Implementations must not block the
// tick loop beyond a bounded send.
type Publisher interface {
	PublishEvent(ctx context.Context, ev events.Event) error
	PublishStatus(ctx context.Context, status events.MachineStatus) error
	PublishTelemetry(ctx context.Context, t events.Telemetry) error
}

// MultiPublisher fans every call out to all of its members, collecting
// every member's error into a single joined error rather than
// short-circuiting on the first failure.
type MultiPublisher struct {
	members []Publisher
}

// NewMultiPublisher builds a MultiPublisher over the given members.
func NewMultiPublisher(members ...Publisher) *MultiPublisher {
	return &MultiPublisher{members: members}
}

func (m *MultiPublisher) PublishEvent(ctx context.Context, ev events.Event) error {
	var errs []error
	for _, p := range m.members {
		if err := p.PublishEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) PublishStatus(ctx context.Context, status events.MachineStatus) error {
	var errs []error
	for _, p := range m.members {
		if err := p.PublishStatus(ctx, status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) PublishTelemetry(ctx context.Context, t events.Telemetry) error {
	var errs []error
	for _, p := range m.members {
		if err := p.PublishTelemetry(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
