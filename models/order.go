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
	"github.com/uptrace/bun"
)

// Order belongs to exactly one user. UserID is set on create and never
// changed by an update.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID          int64     `bun:"user_id,notnull" json:"user_id"`
	Status          string    `bun:"status,type:varchar(20)" json:"status" binding:"omitempty,oneof=new checkout paid failed shipped delivered returned complete"`
	Currency        string    `bun:"currency,type:varchar(3)" json:"currency" binding:"omitempty,len=3"`
	SubTotal        float64   `bun:"sub_total" json:"sub_total" binding:"min=0"`
	Discount        float64   `bun:"discount" json:"discount" binding:"min=0"`
	GrandTotal      float64   `bun:"grand_total" json:"grand_total" binding:"min=0"`
	ShippingAddress string    `bun:"shipping_address,type:text" json:"shipping_address"`
	Note            string    `bun:"note,type:text" json:"note"`
	CreatedAt       time.Time `bun:"created_at,nullzero" json:"created_at"`
}

var _ bun.BeforeAppendModelHook = (*Order)(nil)

func (o *Order) PrimaryKey() int64      { return o.ID }
func (o *Order) SetPrimaryKey(id int64) { o.ID = id }

// BeforeAppendModel stamps CreatedAt on the first insert.
func (o *Order) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	return nil
}

// OrderFields lists what a PUT may overwrite. The owning user is fixed.
var OrderFields = merge.Fields[Order]{
	merge.Set("status", func(o *Order) string { return o.Status }, func(o *Order, v string) { o.Status = v }),
	merge.Set("currency", func(o *Order) string { return o.Currency }, func(o *Order, v string) { o.Currency = v }),
	merge.Set("sub_total", func(o *Order) float64 { return o.SubTotal }, func(o *Order, v float64) { o.SubTotal = v }),
	merge.Set("discount", func(o *Order) float64 { return o.Discount }, func(o *Order, v float64) { o.Discount = v }),
	merge.Set("grand_total", func(o *Order) float64 { return o.GrandTotal }, func(o *Order, v float64) { o.GrandTotal = v }),
	merge.Set("shipping_address", func(o *Order) string { return o.ShippingAddress }, func(o *Order, v string) { o.ShippingAddress = v }),
	merge.Set("note", func(o *Order) string { return o.Note }, func(o *Order, v string) { o.Note = v }),
}
