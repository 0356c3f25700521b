// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
//
// Connections go through the pgx database/sql driver. List-valued fields are
// stored as jsonb, and the schema itself lives in embedded goose migrations
// (see Migrate). Driver errors are translated into store sentinels by
// MapError and its helpers so callers never inspect Postgres codes.
package postgres
