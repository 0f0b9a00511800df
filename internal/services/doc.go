// Package services defines the shared error taxonomy for the composition
// pipeline. Components tag failures with a sentinel marker so the outer
// boundary can classify them without string matching.
package services
