// Package state holds the dashboard data shared between the background
// refresher and the UI.
//
// The refresher fetches each widget independently and hands the results to
// Store.Commit in one Batch. A widget that fails keeps its last good value
// and records the error, so one slow or broken endpoint never blanks the
// others. When every widget fails on consecutive refreshes the snapshot
// reports itself offline.
//
// The requested division travels with each batch. Changing it through
// SetDivision drops the old data, and a batch fetched for a different
// division is ignored.
package state
