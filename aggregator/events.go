package aggregator

import "time"

// Stage names a step of the run
type Stage string

const (
	StageNetworks    Stage = "networks"
	StageDelegations Stage = "delegations"
	StageRewards     Stage = "rewards"
	StageQuarterly   Stage = "quarterly"
)

// Event represents a service lifecycle event
// ------------------------------------------
type Event any

type RunStarted struct {
	StartedAt time.Time
	Stages    []Stage
}

type StageCompleted struct {
	Stage    Stage
	Records  int
	Duration time.Duration
}

type StageDegraded struct {
	Stage Stage
	Err   error
}

type AnomalyDetected struct {
	Stage  Stage
	Detail string
}

type RunCompleted struct {
	Report   Report
	Degraded []Stage
	Duration time.Duration
}
