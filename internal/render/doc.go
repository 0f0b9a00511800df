// Package render turns a scene plan into a video file.
//
// Strategies escalate from richest to simplest: a crossfade composite, then
// a concat of per-scene clips, then a single still across the whole audio.
// A failed strategy is logged and the next one runs; only when every
// strategy has failed does the renderer give up.
package render
