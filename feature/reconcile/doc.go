// Package reconcile merges aggregated email signals into the
// reservation ledger. Planning and applying are split: BuildPlan reads
// a registry snapshot and emits typed actions, Apply executes them as
// one batched mutation, so the merge decision is testable without a
// store and no component writes cells on its own.
package reconcile
