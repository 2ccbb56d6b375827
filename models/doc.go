// Package models declares the bun-mapped resources served by the API along
// with the editable-field table each update applies.
package models
