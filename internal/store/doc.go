// Package store provides SQLite-backed history of stackpng runs.
//
// Each successful build appends one row to runs plus one row per input frame
// to run_inputs. The history answers two questions:
//
//   - what was built, when, and from which files (stackpng history)
//   - whether an output is up to date: the latest run for an image path
//     carries a fingerprint of its inputs and settings, and an identical
//     fingerprint means rebuilding would produce the same bytes
//
// # Ordering
//
// Rows are ordered by the autoincrement seq column, never by wall-clock
// time, so listings are stable even when clocks move backwards.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Fingerprints are SHA-256 over canonical JSON with domain separation; see
// Fingerprint.
package store
