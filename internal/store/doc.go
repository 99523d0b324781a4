// Package store provides SQLite-backed persistence for board configurations.
//
// The store keeps the raw configuration blob of each board, never a resolved
// board: callers validate a document, persist its canonical config form, and
// re-resolve it on load. Two tables:
//   - boards: the current configuration of every board
//   - board_revisions: every saved configuration, append-only
//
// # Patterns
//
// Unique identity:
//   - board code and board name are each UNIQUE; a clash is ErrConflict
//
// Logical time:
//   - revisions are ordered by seq INTEGER, never by timestamps
//   - each save gets a fresh revision id (UUIDv7 unless overridden)
//
// Deterministic results:
//   - list queries order by id or by seq ASC, revision ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: revisions are removed with their board
package store
