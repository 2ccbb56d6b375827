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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

const pkColumn = "id"

var errNotConnected = errors.New("database not connected")

// Handle yields the connection a store queries through. The database
// manager satisfies it, so a store follows the manager across reconnects.
type Handle interface {
	GetDB() *bun.DB
}

type fixedHandle struct{ db *bun.DB }

func (h fixedHandle) GetDB() *bun.DB { return h.db }

type baseRepositoryImpl[T any] struct {
	handle Handle
}

// NewRepository returns a generic DataStore bound to one Bun DB.
func NewRepository[T any](db *bun.DB) DataStore[T] {
	return NewManagedRepository[T](fixedHandle{db: db})
}

// NewManagedRepository returns a generic DataStore that resolves its
// connection from h on every call.
func NewManagedRepository[T any](h Handle) DataStore[T] {
	return &baseRepositoryImpl[T]{handle: h}
}

func (r *baseRepositoryImpl[T]) conn() (*bun.DB, error) {
	db := r.handle.GetDB()
	if db == nil {
		return nil, errNotConnected
	}
	return db, nil
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect {
	if db := r.handle.GetDB(); db != nil {
		return db.Dialect()
	}
	return nil
}

func (r *baseRepositoryImpl[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.FindOne(ctx, types.NewQueryFilter("id = ?", id))
}

func (r *baseRepositoryImpl[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	db, err := r.conn()
	if err != nil {
		return false, err
	}
	return db.NewSelect().Model((*T)(nil)).Where("id = ?", id).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) FindOne(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	entity := new(T)
	query := db.NewSelect().Model(entity)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) FindPage(ctx context.Context, page types.PageRequest) (*types.Pagination[T], error) {
	return r.FindPageBy(ctx, nil, page)
}

func (r *baseRepositoryImpl[T]) FindPageBy(ctx context.Context, filter *types.QueryFilter, page types.PageRequest) (*types.Pagination[T], error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	var entities []*T
	query := db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	total, err := query.
		Order(page.Orders(pkColumn)...).
		Offset(page.Offset()).
		Limit(page.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	pagination := types.NewDefaultPagination[T](page.Page(), page.Limit)
	pagination.Total = total
	if entities != nil {
		pagination.Items = entities
	}
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, fmt.Errorf("cannot save nil %T", entity)
	}
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	if keyed, ok := any(entity).(Keyed); !ok || keyed.PrimaryKey() == 0 {
		if _, err := db.NewInsert().Model(entity).Exec(ctx); err != nil {
			return nil, err
		}
		return entity, nil
	}
	if err := r.upsert(ctx, db, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) DeleteByID(ctx context.Context, id int64) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	_, err = db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteBy(ctx context.Context, filter *types.QueryFilter) (int64, error) {
	if filter == nil {
		return 0, fmt.Errorf("delete without filter is not allowed")
	}
	db, err := r.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.NewDelete().Model((*T)(nil)).Where(filter.Schema, filter.Args...).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// upsert replaces every data column of an existing key, or inserts the row
// when the key is unknown to the store.
func (r *baseRepositoryImpl[T]) upsert(ctx context.Context, db *bun.DB, entity *T) error {
	fields := r.dataColumns(db)
	if len(fields) == 0 {
		return fmt.Errorf("%T has no data columns", entity)
	}
	insertQuery := db.NewInsert().Model(entity)

	switch {
	case db.HasFeature(feature.InsertOnConflict):
		return r.upsertWithPostgresqlOrSQLite(ctx, insertQuery, fields)
	case db.HasFeature(feature.InsertOnDuplicateKey):
		return r.upsertWithMySQL(ctx, insertQuery, fields)
	default:
		return r.upsertFallback(ctx, db, entity)
	}
}

func (r *baseRepositoryImpl[T]) dataColumns(db *bun.DB) []string {
	table := db.Table(reflect.TypeOf((*T)(nil)).Elem())
	fields := make([]string, 0, len(table.DataFields))
	for _, f := range table.DataFields {
		fields = append(fields, f.Name)
	}
	return fields
}

func (r *baseRepositoryImpl[T]) upsertWithMySQL(ctx context.Context, insertQuery *bun.InsertQuery, fields []string) error {
	queryArgs := make([]string, 0, len(fields))
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := insertQuery.
		On("DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertWithPostgresqlOrSQLite(ctx context.Context, insertQuery *bun.InsertQuery, fields []string) error {
	queryArgs := make([]string, 0, len(fields))
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := insertQuery.
		On("CONFLICT (" + pkColumn + ") DO UPDATE").
		Set(strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, db *bun.DB, entity *T) error {
	res, err := db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, insertErr := db.NewInsert().Model(entity).Exec(ctx); insertErr != nil {
		return fmt.Errorf("upsert failed: update matched no rows, insert error: %w", insertErr)
	}
	return nil
}
