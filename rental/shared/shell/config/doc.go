// Package config loads the runtime configuration of the cycle rental service
// and builds the PostgreSQL connections for the supported drivers (pgx.Pool, sql.DB, sqlx.DB).
//
// Values come from environment variables, a .env file in the working directory is loaded first if it exists.
//
// This package is part of the shell (infrastructure) layer.
package config
