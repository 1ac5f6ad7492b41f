package aggregator

// Subscriber handles event subscriptions.
type Subscriber struct {
	done                  chan struct{}
	runStartedHandler     func(RunStarted)
	stageCompletedHandler func(StageCompleted)
	stageDegradedHandler  func(StageDegraded)
	anomalyHandler        func(AnomalyDetected)
	runCompletedHandler   func(RunCompleted)
}

// OnRunStarted sets the handler for RunStarted events
func OnRunStarted(fn func(RunStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.runStartedHandler = fn }
}

// OnStageCompleted sets the handler for StageCompleted events
func OnStageCompleted(fn func(StageCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.stageCompletedHandler = fn }
}

// OnStageDegraded sets the handler for StageDegraded events
func OnStageDegraded(fn func(StageDegraded)) func(*Subscriber) {
	return func(s *Subscriber) { s.stageDegradedHandler = fn }
}

// OnAnomalyDetected sets the handler for AnomalyDetected events
func OnAnomalyDetected(fn func(AnomalyDetected)) func(*Subscriber) {
	return func(s *Subscriber) { s.anomalyHandler = fn }
}

// OnRunCompleted sets the handler for RunCompleted events
func OnRunCompleted(fn func(RunCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.runCompletedHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the dispatch loop.
// Returns a closer function that waits for all events to be processed.
//
// Example:
//
//	closer := aggregator.NewSubscriber(events,
//	  aggregator.OnRunCompleted(func(e aggregator.RunCompleted) { ... }),
//	)
//	defer closer()  // Ensures all events processed before exit
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:                  make(chan struct{}),
		runStartedHandler:     func(RunStarted) {},      // nop by default
		stageCompletedHandler: func(StageCompleted) {},  // nop by default
		stageDegradedHandler:  func(StageDegraded) {},   // nop by default
		anomalyHandler:        func(AnomalyDetected) {}, // nop by default
		runCompletedHandler:   func(RunCompleted) {},    // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	// Start the dispatch loop immediately
	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case RunStarted:
				s.runStartedHandler(e)
			case StageCompleted:
				s.stageCompletedHandler(e)
			case StageDegraded:
				s.stageDegradedHandler(e)
			case AnomalyDetected:
				s.anomalyHandler(e)
			case RunCompleted:
				s.runCompletedHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
