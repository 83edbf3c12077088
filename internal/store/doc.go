// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Every store offers a WithTx variant so
// services can compose several operations in one transaction.
package store
