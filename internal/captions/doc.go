// Package captions handles caption segments: estimated timing from script
// text, SRT parsing and formatting, timing correction against the true audio
// duration, and the burn-in style catalogue.
package captions
