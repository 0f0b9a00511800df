// Package compose orchestrates one composition end to end: input
// validation, duration probing, scene planning, rendering, caption timing,
// and optional burn-in, all inside a scoped scratch directory that is
// removed whichever way the run ends.
package compose
