// Package events defines the tagged job-shop event variants and the status
// and telemetry payload shapes published on the external bus (C7, spec §6).
package events

// Type tags the kind of job-shop event.
type Type string

const (
	Started    Type = "STARTED"
	StepDone   Type = "STEP_DONE"
	Completed  Type = "COMPLETED"
	Failed     Type = "FAILED"
	Prediction Type = "PREDICTION"
)

// Event is the single wire shape for every job-shop event: a discriminated
// union over Type, with every field an event variant might need. Fields
// irrelevant to a given Type are left at their zero value and omitted from
// JSON encoding.
type Event struct {
	Type Type `json:"type"`

	Timestamp int `json:"timestamp"`

	JobID         string `json:"job_id,omitempty"`
	MachineID     string `json:"machine_id,omitempty"`
	RequiredClass string `json:"required_class,omitempty"`
	StepRemaining int    `json:"step_remaining,omitempty"`
	Method        string `json:"method,omitempty"`

	NextRequiredClass *string `json:"next_required_class,omitempty"`

	Class       string  `json:"class,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Vibration   float64 `json:"vibration,omitempty"`

	RiskScore *float64 `json:"risk_score,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// NewStarted builds a STARTED event. method is always "IHA" per spec §6.
func NewStarted(tick int, jobID, machineID, requiredClass string, stepRemaining int) Event {
	return Event{
		Type: Started, Timestamp: tick,
		JobID: jobID, MachineID: machineID,
		RequiredClass: requiredClass, StepRemaining: stepRemaining,
		Method: "IHA",
	}
}

// NewStepDone builds a STEP_DONE event. nextRequiredClass is "" once the
// job is fully done, matching the reference's "" sentinel.
func NewStepDone(tick int, jobID, nextRequiredClass string) Event {
	return Event{
		Type: StepDone, Timestamp: tick,
		JobID:             jobID,
		NextRequiredClass: &nextRequiredClass,
	}
}

// NewCompleted builds a COMPLETED event.
func NewCompleted(tick int, jobID, machineID string) Event {
	return Event{Type: Completed, Timestamp: tick, JobID: jobID, MachineID: machineID}
}

// NewFailed builds a FAILED event.
func NewFailed(tick int, machineID, class, jobID string, temperature, vibration float64) Event {
	return Event{
		Type: Failed, Timestamp: tick,
		MachineID: machineID, Class: class, JobID: jobID,
		Reason: "threshold_exceeded", Temperature: temperature, Vibration: vibration,
	}
}

// NewPrediction builds a PREDICTION event.
func NewPrediction(tick int, machineID, jobID string, riskScore, threshold float64) Event {
	return Event{
		Type: Prediction, Timestamp: tick,
		MachineID: machineID, JobID: jobID,
		Reason: "will_fail", RiskScore: &riskScore, Threshold: &threshold,
	}
}

// MachineStatus is the retained per-machine snapshot on job/status.
type MachineStatus struct {
	Timestamp     int     `json:"timestamp"`
	MachineID     string  `json:"machine_id"`
	ClassName     string  `json:"class_name"`
	Temperature   float64 `json:"temperature"`
	Vibration     float64 `json:"vibration"`
	Status        string  `json:"status"`
	CurrentJob    string  `json:"current_job"`
	TempThreshold float64 `json:"temp_threshold"`
	VibThreshold  float64 `json:"vib_threshold"`
	PowerKWhTotal float64 `json:"power_kwh_total"`
}

// Telemetry is the non-retained per-tick sample on job/telemetry.
type Telemetry struct {
	Timestamp    int     `json:"timestamp"`
	ClassName    string  `json:"class_name"`
	MachineID    string  `json:"machine_id"`
	TemperatureC float64 `json:"temperature_c"`
	VibrationRMS float64 `json:"vibration_rms_mm_s"`
	Seq          int     `json:"seq"`
}

// Alert is the inbound payload on job/alerts, published by the external
// risk-inference collaborator. Only the wire shape is defined here; the
// kernel does not subscribe to or decode alerts.
type Alert struct {
	Timestamp string  `json:"timestamp"`
	MachineID string  `json:"machine_id"`
	RiskScore float64 `json:"risk_score"`
	Threshold float64 `json:"threshold"`
	RedFlag   bool    `json:"red_flag"`
}
