// Package database provides connection management for MySQL, PostgreSQL and
// SQLite through Bun, along with health checks, pool statistics, slow query
// reporting, SQL error classification, a model registry and schema bootstrap.
package database
