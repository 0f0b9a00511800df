// Package probe determines the true duration of an audio asset through a
// strict cascade of detection tiers. Probing never fails outward: every tier
// failure falls through to a cheaper, less precise strategy, ending at a
// configured constant. The tier that produced the value is tagged on the
// result for diagnostics and tests.
package probe
