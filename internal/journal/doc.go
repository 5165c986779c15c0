// Package journal provides SQLite-backed history of generation runs.
//
// Every run records one artifact row per module and target, with the
// content hash of the serialized descriptor. The generator uses LastHash
// to leave files that did not change untouched, so IDEs watching the
// output tree do not see spurious modifications.
//
// # Ordering
//
// All queries order by seq INTEGER (logical clock), never by timestamps,
// so history listings are identical across machines.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON: artifacts must reference an existing run
package journal
