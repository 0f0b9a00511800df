// Package assetstore persists composition inputs and outputs in a local
// SQLite catalogue, with the files themselves copied into the library
// directory under stable identifiers.
package assetstore
