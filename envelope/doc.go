// Package envelope defines the uniform response body returned by every
// endpoint and the immutable table of resource and operation codes behind it.
//
// Success codes have the form <PREFIX>200n and failure codes <PREFIX>100n, so
// the outcome kind can be read from the code alone.
package envelope
