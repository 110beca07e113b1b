// Package store provides the persistence implementations behind the
// task.Store contract.
//
// Two backends exist:
//
//   - Memory: a map keyed by task ID, for tests and single-process
//     deployments. Nothing survives a restart.
//   - SQLite: a single-table database file, for deployments that want
//     tasks to survive restarts.
//
// Both treat tasks as values: stored records never alias caller memory
// and returned records are safe to mutate. Individual calls are
// serialized; nothing coordinates read-modify-write sequences, which is
// the lifecycle engine's documented last-write-wins behavior.
package store
