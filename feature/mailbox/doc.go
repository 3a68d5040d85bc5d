// Package mailbox abstracts the email source the reconciliation pass reads
// from.
//
// The Service interface mirrors the familiar mailbox contract: a sender- and
// recency-scoped thread search, and labels used as processed markers. Two
// implementations are provided: ObjectStore reads a thread dump maintained
// by an external fetcher in object storage, and InMemory backs tests.
package mailbox
