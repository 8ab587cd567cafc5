// Package sqlite provides the SQLite-backed implementation of the driven
// storage ports: documents with a full-text index, commit audit records,
// per-source revision state and the singleton sync checkpoint.
package sqlite
