// Package postgres provides PostgreSQL implementations of the interfaces in
// internal/store, the embedded goose migrations for the schema, and the
// mapping of driver errors to store errors.
//
// Stores accept a store.DBTX so the same code runs on a pool or inside a
// transaction. Dynamic filters are built with squirrel; the aggregate report
// queries scan into structs with sqlx.
package postgres
