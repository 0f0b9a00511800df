// Package ffmpeg drives the external media toolchain through process
// invocation. The Transcoder exposes the narrow set of operations the
// composition pipeline needs (still clips, concat-demux joins, crossfade
// composites, caption burn-in, diagnostic scans) so an alternate backend can
// be substituted without touching planner or corrector logic.
package ffmpeg
