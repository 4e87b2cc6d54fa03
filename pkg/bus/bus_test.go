package bus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/bus"
	"github.com/flexshop/jobshop-sim/pkg/events"
)

type fakePublisher struct {
	events     []events.Event
	statuses   []events.MachineStatus
	telemetry  []events.Telemetry
	err        error
}

func (f *fakePublisher) PublishEvent(_ context.Context, ev events.Event) error {
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) PublishStatus(_ context.Context, s events.MachineStatus) error {
	f.statuses = append(f.statuses, s)
	return f.err
}

func (f *fakePublisher) PublishTelemetry(_ context.Context, tm events.Telemetry) error {
	f.telemetry = append(f.telemetry, tm)
	return f.err
}

func TestMultiPublisherFansOutToEveryMember(t *testing.T) {
	a, b := &fakePublisher{}, &fakePublisher{}
	mp := bus.NewMultiPublisher(a, b)

	ev := events.NewCompleted(3, "JOB_1", "A_1")
	require.NoError(t, mp.PublishEvent(context.Background(), ev))

	assert.Equal(t, []events.Event{ev}, a.events)
	assert.Equal(t, []events.Event{ev}, b.events)
}

func TestMultiPublisherJoinsErrorsFromEveryMemberWithoutShortCircuiting(t *testing.T) {
	failing := &fakePublisher{err: errors.New("send failed")}
	working := &fakePublisher{}
	mp := bus.NewMultiPublisher(failing, working)

	err := mp.PublishTelemetry(context.Background(), events.Telemetry{MachineID: "A_1"})
	require.Error(t, err)
	assert.Len(t, working.telemetry, 1, "a failing member must not block delivery to the rest")
}

func TestMultiPublisherWithNoMembersSucceeds(t *testing.T) {
	mp := bus.NewMultiPublisher()
	assert.NoError(t, mp.PublishStatus(context.Background(), events.MachineStatus{}))
}
