// Package processing drives the asynchronous asset enrichment pipeline.
//
// An uploaded asset starts in the pending state. A processing run downloads
// the original bytes, extracts text (PDFs), generates AI tags and a summary,
// embeds a combined text blob, optionally derives a thumbnail, and persists
// everything with status complete. Any hard failure during a run sets status
// failed; individual enrichment capabilities degrade to empty results
// instead of failing the run.
//
// Runs are triggered fire-and-forget via Enqueue and executed on a bounded
// worker pool. Retry is explicit: callers reset the asset to pending and
// enqueue it again; the pipeline never self-schedules retries.
package processing
