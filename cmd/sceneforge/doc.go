// Command sceneforge composes narrated slideshow videos: it probes the
// narration's duration, plans one scene per image, renders with crossfades
// (falling back to simpler strategies), and corrects caption timing before
// an optional burn-in.
package main
