// Package ffprobe wraps structured metadata inspection of media assets. It is
// the authoritative, cheapest source for an audio asset's duration; callers
// that need a duration under all circumstances should go through
// internal/media/probe instead, which layers fallbacks on top of this.
package ffprobe
