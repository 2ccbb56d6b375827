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

package repository

import (
	"context"
	"errors"

	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun/schema"
)

// ErrNotFound is returned when no row matches the requested key or filter.
var ErrNotFound = errors.New("record not found")

// Keyed is implemented by models with a numeric primary key. A zero key
// marks a record the store has not assigned an identifier to yet.
type Keyed interface {
	PrimaryKey() int64
	SetPrimaryKey(id int64)
}

// CrudRepository defines per-identifier operations.
type CrudRepository[T any] interface {
	FindByID(ctx context.Context, id int64) (*T, error)

	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save inserts entity when its key is zero and replaces the stored row
	// otherwise. The store-assigned key is written back into entity.
	Save(ctx context.Context, entity *T) (*T, error)

	DeleteByID(ctx context.Context, id int64) error
}

// PageQueryRepository defines paged listing.
type PageQueryRepository[T any] interface {
	FindPage(ctx context.Context, page types.PageRequest) (*types.Pagination[T], error)
}

// FilterRepository defines compound lookups, e.g. an order by owner and id.
type FilterRepository[T any] interface {
	FindOne(ctx context.Context, filter *types.QueryFilter) (*T, error)

	FindPageBy(ctx context.Context, filter *types.QueryFilter, page types.PageRequest) (*types.Pagination[T], error)

	DeleteBy(ctx context.Context, filter *types.QueryFilter) (int64, error)
}

// DataStore combines every capability a resource service consumes.
type DataStore[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	FilterRepository[T]
	Dialect() schema.Dialect
}
