package logbus_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/bus/logbus"
	"github.com/flexshop/jobshop-sim/pkg/events"
)

func TestPublishEventWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	p := logbus.New(log)

	err := p.PublishEvent(context.Background(), events.NewStarted(1, "JOB_1", "A_1", "A", 4))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"event_type":"STARTED"`)
	assert.Contains(t, out, `"job_id":"JOB_1"`)
}

func TestPublishStatusWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	p := logbus.New(log)

	err := p.PublishStatus(context.Background(), events.MachineStatus{MachineID: "A_1", Status: "Operational"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"status":"Operational"`)
}

func TestPublishTelemetryWritesAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	p := logbus.New(log)

	err := p.PublishTelemetry(context.Background(), events.Telemetry{MachineID: "A_1", TemperatureC: 42.5})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"temperature_c":42.5`)
}
