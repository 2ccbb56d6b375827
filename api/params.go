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

package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/storefront/types"
)

// requestError is a malformed path, query or body value.
type requestError struct {
	field string
	err   error
}

func (e *requestError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.field, e.err)
}

func (e *requestError) Unwrap() error { return e.err }

// listQuery is a validated page, size and order_by triple.
type listQuery struct {
	page      int
	size      int
	direction types.SortDirection
}

// Paging bounds the size query parameter.
type Paging struct {
	DefaultSize int
	MaxSize     int // 0 means unbounded
}

func (p Paging) parse(c *gin.Context) (listQuery, error) {
	q := listQuery{page: 1, size: p.DefaultSize, direction: types.Asc}
	if q.size < 1 {
		q.size = types.DefaultPageSize
	}
	if raw, ok := c.GetQuery("page"); ok {
		n, err := positiveInt(raw)
		if err != nil {
			return q, &requestError{field: "page", err: err}
		}
		q.page = n
	}
	if raw, ok := c.GetQuery("size"); ok {
		n, err := positiveInt(raw)
		if err != nil {
			return q, &requestError{field: "size", err: err}
		}
		if p.MaxSize > 0 && n > p.MaxSize {
			return q, &requestError{field: "size", err: fmt.Errorf("must not exceed %d", p.MaxSize)}
		}
		q.size = n
	}
	if raw, ok := c.GetQuery("order_by"); ok {
		dir, valid := types.ParseSortDirection(raw)
		if !valid {
			return q, &requestError{field: "order_by", err: fmt.Errorf("%q is neither ASC nor DESC", raw)}
		}
		q.direction = dir
	}
	return q, nil
}

// pathID reads a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &requestError{field: name, err: fmt.Errorf("%q is not a number", raw)}
	}
	if id < 1 {
		return 0, &requestError{field: name, err: fmt.Errorf("must be at least 1")}
	}
	return id, nil
}

func positiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	return n, nil
}
