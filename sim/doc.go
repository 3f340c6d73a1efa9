// Package sim provides the queueing engine of the post office simulator.
//
// # Reading Guide
//
// Start with these three files to understand a simulated business day:
//   - customer.go: Customer lifecycle (arrived → assigned → resolved or dropped)
//   - routing.go: Round-robin counter assignment
//   - simulator.go: The FIFO service loop and the end-of-business cutoff
//
// # Architecture
//
// The sim package defines the run-scoped engine and the ResultSink interface;
// collaborators live in sub-packages:
//   - sim/workload/: Arrival generation and YAML day specs
//   - sim/store/: Postgres ResultSink
//   - sim/analytics/: Read-side resampling and wait statistics
//   - sim/staffing/: Counter-count optimizer (integer LP)
//   - sim/trace/: Decision trace recording
//
// Randomness flows through PartitionedRNG so that arrivals, service
// estimates, resolution windows and pacing each draw from an isolated
// stream derived from one seed.
package sim
