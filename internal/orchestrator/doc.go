// Package orchestrator runs the configured source pipelines and aggregates
// their results into a run report. Pipelines are isolated from each other:
// one failing source never blocks the rest unless the run is configured to
// stop on the first error.
package orchestrator
