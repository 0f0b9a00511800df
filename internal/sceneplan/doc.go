// Package sceneplan divides an audio timeline into per-image scenes.
//
// Every image receives exactly one scene of equal length. When crossfade
// transitions fit inside the audio, their combined length is carved out of
// the distributable time first; otherwise transitions are disabled and the
// full timeline is split evenly. The final scene absorbs floating point
// drift so its end lands exactly on the audio duration.
package sceneplan
