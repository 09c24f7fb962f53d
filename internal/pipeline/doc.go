// Package pipeline implements the per-asset-class source pipelines.
//
// Each pipeline composes fetch -> quality gate -> dimension resolution ->
// fact upsert for one provider and asset class, with strict stage ordering:
// no loading starts before the full batch is validated. Every failure mode,
// including panics, is captured into the returned Result; nothing escapes to
// the orchestrator as an error.
package pipeline
