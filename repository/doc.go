// Package repository provides the generic bun-backed DataStore used by every
// resource: lookup by id, paged listing, insert-or-replace save, delete, and
// filtered lookups for owned sub-resources.
package repository
