// sim/simulator.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/postoffice-sim/postoffice-sim/sim/trace"
)

// ErrRunFinished is returned when RunToCompletion is called twice on the
// same simulator. Each QueueSimulator models exactly one business day.
var ErrRunFinished = errors.New("simulation run already finished")

// RunResult reports how a run ended.
// Completed is false when the end-of-business cutoff stopped the run early.
type RunResult struct {
	Completed       bool
	Processed       int // customers resolved
	Persisted       int // resolved customers whose record reached the sink
	PersistFailures int
	Dropped         int // cutoff customer plus everything still queued behind it
}

// Option configures a QueueSimulator.
type Option func(*QueueSimulator)

// WithPacer installs a demo delay. The default is NoPacer.
func WithPacer(p Pacer) Option {
	return func(s *QueueSimulator) {
		if p != nil {
			s.pacer = p
		}
	}
}

// WithTrace records every counter assignment into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(s *QueueSimulator) { s.Trace = st }
}

// QueueSimulator owns the wait queue, the round-robin cursor and the run
// aggregates of a single business day. Not safe for concurrent use.
type QueueSimulator struct {
	Config RunConfig
	// WaitQ holds arrived customers in enqueue order
	WaitQ   *WaitQueue
	Metrics *RunMetrics
	Trace   *trace.SimulationTrace

	router     *RoundRobin
	sink       ResultSink
	resolution *rand.Rand
	pacer      Pacer
	seq        int
	finished   bool
}

// NewQueueSimulator validates cfg and creates a run-scoped simulator.
// The resolution window is drawn from rng's SubsystemResolution stream.
func NewQueueSimulator(cfg RunConfig, sink ResultSink, rng *PartitionedRNG, opts ...Option) (*QueueSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, NewConfigError("sink", "must not be nil")
	}
	if rng == nil {
		return nil, NewConfigError("rng", "must not be nil")
	}
	s := &QueueSimulator{
		Config:     cfg,
		WaitQ:      &WaitQueue{},
		Metrics:    NewMetrics(),
		router:     NewRoundRobin(cfg.Counters),
		sink:       sink,
		resolution: rng.ForSubsystem(SubsystemResolution),
		pacer:      NoPacer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Metrics.Counters = cfg.Counters
	s.Metrics.OpenAt = cfg.OpenAt
	s.Metrics.CloseAt = cfg.CloseAt
	return s, nil
}

// Enqueue adds a newly arrived customer to the back of the wait queue.
// Callers enqueue in arrival-timestamp order.
func (s *QueueSimulator) Enqueue(c *Customer) {
	s.WaitQ.Enqueue(c)
}

// Simulate enqueues every customer in order and runs the day.
func (s *QueueSimulator) Simulate(ctx context.Context, customers []*Customer) (RunResult, error) {
	for _, c := range customers {
		s.Enqueue(c)
	}
	return s.RunToCompletion(ctx)
}

// RunToCompletion clears the sink and serves queued customers one at a time
// until the queue drains or a departure would fall after the cutoff.
// A failed Append is logged and counted; it does not stop the run.
func (s *QueueSimulator) RunToCompletion(ctx context.Context) (RunResult, error) {
	if s.finished {
		return RunResult{}, ErrRunFinished
	}
	s.finished = true
	s.Metrics.RunID = uuid.NewString()
	log := logrus.WithField("run", s.Metrics.RunID)

	if err := s.sink.Clear(ctx); err != nil {
		return RunResult{}, fmt.Errorf("clearing result sink: %w", err)
	}
	log.Infof("Starting simulation with %d counters, %d queued customers, cutoff=%s",
		s.Config.Counters, s.WaitQ.Len(), s.Config.CloseAt.Format(TimestampLayout))

	result := RunResult{Completed: true}
	for s.WaitQ.Len() > 0 {
		c := s.WaitQ.Dequeue()
		assignment := s.router.Assign()
		c.Counter = assignment.Counter
		c.State = StateAssigned

		departure := c.ArrivalTime.Add(s.drawWait())
		if departure.After(s.Config.CloseAt) {
			result.Completed = false
			result.Dropped = s.dropRemaining(c, departure)
			log.Infof("Cutoff reached at customer %d (departure %s); dropped %d customers",
				c.ID, departure.Format(TimestampLayout), result.Dropped)
			break
		}

		c.resolve(departure)
		result.Processed++
		s.record(c, assignment, trace.OutcomeResolved)
		log.Debugf("customer %d (%s) counter=%d wait=%.2fmin", c.ID, c.Purpose, c.Counter, c.WaitMinutes)

		if err := s.sink.Append(ctx, NewRecord(c)); err != nil {
			result.PersistFailures++
			log.Warnf("persisting customer %d: %v", c.ID, err)
		} else {
			result.Persisted++
			s.Metrics.CustomersServed++
			s.Metrics.TotalWaitMinutes += c.WaitMinutes
			s.Metrics.CounterServed[c.Counter]++
		}

		s.pacer.Pace(c)
	}

	s.Metrics.Processed = result.Processed
	s.Metrics.PersistFailures = result.PersistFailures
	s.Metrics.Dropped = result.Dropped
	log.Infof("Simulation ended: served=%d processed=%d dropped=%d avg_wait=%.2fmin",
		s.Metrics.CustomersServed, result.Processed, result.Dropped, s.Metrics.AverageWaitMinutes())
	return result, nil
}

// drawWait returns a uniform duration in [MinWaitMinutes, MaxWaitMinutes].
func (s *QueueSimulator) drawWait() time.Duration {
	span := s.Config.MaxWaitMinutes - s.Config.MinWaitMinutes
	minutes := s.Config.MinWaitMinutes + s.resolution.Float64()*span
	return time.Duration(minutes * float64(time.Minute))
}

// dropRemaining marks the cutoff customer and every queued customer dropped
// and returns how many were discarded.
func (s *QueueSimulator) dropRemaining(c *Customer, departure time.Time) int {
	c.State = StateDropped
	if s.Trace.Enabled() {
		s.Trace.RecordAssignment(trace.AssignmentRecord{
			Seq:           s.seq,
			CustomerID:    c.ID,
			Counter:       c.Counter,
			ArrivalTime:   c.ArrivalTime,
			DepartureTime: departure,
			Outcome:       trace.OutcomeDropped,
			Reason:        "after cutoff",
		})
	}
	s.seq++
	rest := s.WaitQ.Drain()
	for _, r := range rest {
		r.State = StateDropped
	}
	return 1 + len(rest)
}

func (s *QueueSimulator) record(c *Customer, assignment CounterAssignment, outcome trace.Outcome) {
	if s.Trace.Enabled() {
		s.Trace.RecordAssignment(trace.AssignmentRecord{
			Seq:           s.seq,
			CustomerID:    c.ID,
			Counter:       c.Counter,
			ArrivalTime:   c.ArrivalTime,
			DepartureTime: c.DepartureTime,
			Outcome:       outcome,
			Reason:        assignment.Reason,
		})
	}
	s.seq++
}
