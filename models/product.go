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

package models

import (
	"context"
	"time"

	"github.com/tomoncle/storefront/merge"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

// Product is an inventory item.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64            `bun:"id,pk,autoincrement" json:"id"`
	Name        string           `bun:"name,type:varchar(100),notnull" json:"name" binding:"required,max=100"`
	Description string           `bun:"description,type:text" json:"description"`
	SKU         string           `bun:"sku,type:varchar(64)" json:"sku" binding:"max=64"`
	Price       float64          `bun:"price" json:"price" binding:"min=0"`
	Quantity    int              `bun:"quantity" json:"quantity" binding:"min=0"`
	Attributes  types.JsonObject `bun:"attributes,type:text" json:"attributes,omitempty"`
	CreatedAt   time.Time        `bun:"created_at,nullzero" json:"created_at"`
}

var _ bun.BeforeAppendModelHook = (*Product)(nil)

func (p *Product) PrimaryKey() int64      { return p.ID }
func (p *Product) SetPrimaryKey(id int64) { p.ID = id }

// BeforeAppendModel stamps CreatedAt on the first insert.
func (p *Product) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}

// ProductFields lists what a PUT may overwrite.
var ProductFields = merge.Fields[Product]{
	merge.Set("name", func(p *Product) string { return p.Name }, func(p *Product, v string) { p.Name = v }),
	merge.Set("description", func(p *Product) string { return p.Description }, func(p *Product, v string) { p.Description = v }),
	merge.Set("sku", func(p *Product) string { return p.SKU }, func(p *Product, v string) { p.SKU = v }),
	merge.Set("price", func(p *Product) float64 { return p.Price }, func(p *Product, v float64) { p.Price = v }),
	merge.Set("quantity", func(p *Product) int { return p.Quantity }, func(p *Product, v int) { p.Quantity = v }),
	merge.Set("attributes", func(p *Product) types.JsonObject { return p.Attributes }, func(p *Product, v types.JsonObject) { p.Attributes = v }),
}
