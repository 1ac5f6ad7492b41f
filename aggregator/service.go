package aggregator

import (
	"context"
	"fmt"

	"github.com/screwyprof/graphmetrics/pkg/clock"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithConfig sets the run configuration
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// Service runs every aggregation stage once and assembles the Report
// ------------------------------------------------------------------
type Service struct {
	network Querier
	rewards map[string]Querier
	clock   Clock
	cfg     Config
	events  chan Event
}

// NewService constructs a Service. network serves the subgraph, delegation and
// quarterly stages; rewards maps each reward network name to its subgraph.
// By default, it uses a real clock and DefaultConfig.
func NewService(network Querier, rewards map[string]Querier, opts ...Option) *Service {
	s := &Service{
		network: network,
		rewards: rewards,
		clock:   clock.SystemClock{},
		cfg:     DefaultConfig(),
		events:  make(chan Event, 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the run and returns the events channel and done channel.
// The run ends with a RunCompleted event carrying the report, even when
// stages degrade or ctx is cancelled midway.
//
// Example:
//
//	events, done := service.Start(ctx)
//	closer := aggregator.NewSubscriber(events,
//	  aggregator.OnRunCompleted(func(e aggregator.RunCompleted) { ... }),
//	)
//	<-done
//	closer()
func (s *Service) Start(ctx context.Context) (<-chan Event, <-chan struct{}) {
	done := make(chan struct{})
	go func() {
		defer close(s.events)
		defer close(done)
		s.run(ctx)
	}()
	return s.events, done
}

// run executes the stages sequentially; a degraded stage does not stop the next one
func (s *Service) run(ctx context.Context) {
	start := s.clock.Now()
	s.events <- RunStarted{
		StartedAt: start,
		Stages:    []Stage{StageNetworks, StageDelegations, StageRewards, StageQuarterly},
	}

	var (
		report   Report
		degraded []Stage
	)
	track := func(stage Stage, fn func() (int, error)) {
		if !s.stage(stage, fn) {
			degraded = append(degraded, stage)
		}
	}

	track(StageNetworks, func() (int, error) {
		networks, err := AggregateNetworks(ctx, s.network, s.cfg)
		report.Networks = networks
		report.Ranking = RankNetworks(networks.Metrics, s.cfg.topNetworks())
		if err == nil && len(networks.Metrics) == 0 {
			err = ErrNoNetworks
		}
		return networks.SubgraphsScanned, err
	})

	track(StageDelegations, func() (int, error) {
		summary, err := AggregateDelegations(ctx, s.network, s.cfg)
		report.Delegations = summary
		return len(summary.Events), err
	})

	track(StageRewards, func() (int, error) {
		rewards, err := AggregateRewards(ctx, s.rewards, s.cfg)
		report.Rewards = rewards
		return len(rewards), err
	})

	track(StageQuarterly, func() (int, error) {
		quarters, err := RollupQuarters(ctx, s.network, s.cfg)
		report.Quarters = quarters

		var live int
		for _, q := range quarters {
			if q.Source == SourceLive {
				live++
			}
			if q.Anomalous {
				s.events <- AnomalyDetected{
					Stage:  StageQuarterly,
					Detail: fmt.Sprintf("%s has a negative reward delta", q.Label),
				}
			}
		}
		return live, err
	})

	report.GeneratedAt = s.clock.Now()
	s.events <- RunCompleted{
		Report:   report,
		Degraded: degraded,
		Duration: report.GeneratedAt.Sub(start),
	}
}

// stage runs fn and reports its outcome, returning false when it degraded
func (s *Service) stage(stage Stage, fn func() (int, error)) bool {
	begin := s.clock.Now()
	records, err := fn()
	if err != nil {
		s.events <- StageDegraded{Stage: stage, Err: err}
	}
	s.events <- StageCompleted{
		Stage:    stage,
		Records:  records,
		Duration: s.clock.Now().Sub(begin),
	}
	return err == nil
}
