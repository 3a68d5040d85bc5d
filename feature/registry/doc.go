// Package registry is the durable reservation ledger: one sheet-like
// table per booking platform, keyed by reservation ID. It resolves
// column positions from each table's header row, indexes existing
// reservation IDs, and funnels all writes through batched mutations so
// callers decide what changes and the store applies it in one call.
package registry
