/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"math"
)

// DefaultPageSize is used when a caller supplies no usable size.
const DefaultPageSize = 10

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// PageRequest is a normalized page query. Index is the zero-based page
// number; Limit is always >= 1.
type PageRequest struct {
	Index     int
	Limit     int
	Direction SortDirection
}

// Normalize turns raw, possibly absent page/size values into a PageRequest.
// A page below 1 (absent, zero or negative) selects the first page and a size
// below 1 selects DefaultPageSize. No upper bound is applied to size.
func Normalize(page, size *int, direction SortDirection) PageRequest {
	req := PageRequest{Index: 0, Limit: DefaultPageSize, Direction: direction}
	if page != nil && *page >= 1 {
		req.Index = *page - 1
	}
	if size != nil && *size >= 1 {
		req.Limit = *size
	}
	if !direction.IsValid() {
		req.Direction = Asc
	}
	return req
}

// Offset returns the number of rows to skip, saturating at math.MaxInt
// when the page lies beyond any addressable row.
func (p PageRequest) Offset() int {
	if p.Index <= 0 || p.Limit <= 0 {
		return 0
	}
	if p.Index > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return p.Index * p.Limit
}

// Page returns the one-based page number.
func (p PageRequest) Page() int {
	return p.Index + 1
}

// Orders returns the ORDER BY expressions for the given key column.
func (p PageRequest) Orders(column string) []string {
	return []string{fmt.Sprintf("%s %s", column, p.Direction.Name())}
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}
