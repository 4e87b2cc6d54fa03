// Package logbus implements a bus.Publisher that writes newline-delimited
// JSON through zerolog, the same structured logger the rest of the repo
// uses. It is the default sink for local runs and the one tests assert
// against.
package logbus

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flexshop/jobshop-sim/pkg/events"
)

// Publisher writes every publish call as a structured log line.
type Publisher struct {
	log zerolog.Logger
}

// New wraps an existing logger. Callers typically pass a logger already
// tagged with a component field.
func New(log zerolog.Logger) *Publisher {
	return &Publisher{log: log.With().Str("sink", "log").Logger()}
}

func (p *Publisher) PublishEvent(_ context.Context, ev events.Event) error {
	p.log.Info().
		Str("channel", "jobshop/status").
		Str("event_type", string(ev.Type)).
		Int("timestamp", ev.Timestamp).
		Str("job_id", ev.JobID).
		Str("machine_id", ev.MachineID).
		Msg("event")
	return nil
}

func (p *Publisher) PublishStatus(_ context.Context, status events.MachineStatus) error {
	p.log.Info().
		Str("channel", "job/status").
		Str("machine_id", status.MachineID).
		Str("status", status.Status).
		Str("current_job", status.CurrentJob).
		Float64("temperature", status.Temperature).
		Float64("vibration", status.Vibration).
		Msg("status")
	return nil
}

func (p *Publisher) PublishTelemetry(_ context.Context, t events.Telemetry) error {
	p.log.Debug().
		Str("channel", "job/telemetry").
		Str("machine_id", t.MachineID).
		Float64("temperature_c", t.TemperatureC).
		Float64("vibration_rms_mm_s", t.VibrationRMS).
		Msg("telemetry")
	return nil
}
