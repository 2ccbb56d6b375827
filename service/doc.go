// Package service orchestrates a DataStore, the page policy and the update
// merger for each resource. NotFound is returned as ErrNotFound or a false
// result; any other store failure comes back as an OperationError naming the
// failed operation, with the driver error kept as its cause.
package service
