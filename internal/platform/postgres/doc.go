// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in the store package, using the pgx driver through
// database/sql.
package postgres
