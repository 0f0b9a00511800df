// Package workspace manages scoped scratch directories for composition runs.
//
// Every run gets its own uniquely named directory under the workspace root.
// Scopes are removed when the run finishes, success or failure, and a
// lock-guarded sweep reclaims directories that outlived their run.
package workspace
