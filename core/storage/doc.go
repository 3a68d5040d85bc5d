// Package storage provides the object storage client shared by the
// object-store mailbox and the CSV ledger tables.
//
// The Client interface narrows the Minio SDK to the operations the rest of
// the application needs, which keeps the collaborators mockable in tests
// (see the mocks subpackage).
package storage
