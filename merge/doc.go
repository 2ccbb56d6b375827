// Package merge applies an update payload onto a stored record by
// overwriting a fixed table of editable fields.
package merge
