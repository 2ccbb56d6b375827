// Package api exposes the resource services over HTTP with gin. Every
// response body is an envelope.Envelope carrying a resource and operation
// scoped code.
package api
