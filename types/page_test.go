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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		page      *int
		size      *int
		wantIndex int
		wantLimit int
	}{
		{"both absent", nil, nil, 0, 10},
		{"negative page and size", intPtr(-3), intPtr(-1), 0, 10},
		{"zero page and zero size", intPtr(0), intPtr(0), 0, 10},
		{"negative page with valid size", intPtr(-1), intPtr(25), 0, 25},
		{"absent page with valid size", nil, intPtr(7), 0, 7},
		{"page zero behaves like page one", intPtr(0), intPtr(5), 0, 5},
		{"first page", intPtr(1), intPtr(5), 0, 5},
		{"second page", intPtr(2), intPtr(10), 1, 10},
		{"large size is not clamped", intPtr(3), intPtr(100000), 2, 100000},
		{"valid page with invalid size", intPtr(4), intPtr(0), 3, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.page, tt.size, Asc)
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.GreaterOrEqual(t, got.Limit, 1)
			assert.GreaterOrEqual(t, got.Index, 0)
		})
	}
}

func TestNormalizeProperties(t *testing.T) {
	for page := -5; page <= 5; page++ {
		for size := -5; size <= 5; size++ {
			got := Normalize(intPtr(page), intPtr(size), Desc)
			switch {
			case page < 1 && size < 1:
				assert.Equal(t, PageRequest{Index: 0, Limit: 10, Direction: Desc}, got)
			case page < 1:
				assert.Equal(t, PageRequest{Index: 0, Limit: size, Direction: Desc}, got)
			case size >= 1:
				assert.Equal(t, PageRequest{Index: page - 1, Limit: size, Direction: Desc}, got)
			}
		}
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := Normalize(intPtr(2), intPtr(10), Asc)
	assert.Equal(t, 10, req.Offset())
	assert.Equal(t, 2, req.Page())
	assert.Equal(t, []string{"id ASC"}, req.Orders("id"))
}

func TestPageRequestOffsetSaturates(t *testing.T) {
	for _, tc := range []struct {
		page, size int
	}{
		{math.MaxInt/4 + 2, 4},
		{math.MaxInt, 2},
		{math.MaxInt, math.MaxInt},
	} {
		req := Normalize(intPtr(tc.page), intPtr(tc.size), Asc)
		assert.Equal(t, math.MaxInt, req.Offset(), "page=%d size=%d", tc.page, tc.size)
	}

	req := Normalize(intPtr(math.MaxInt/4+1), intPtr(4), Asc)
	assert.Equal(t, math.MaxInt/4*4, req.Offset())
}

func TestNormalizeInvalidDirection(t *testing.T) {
	got := Normalize(nil, nil, SortDirection(IllegalValue))
	assert.Equal(t, Asc, got.Direction)
}

func TestParseSortDirection(t *testing.T) {
	d, ok := ParseSortDirection("desc")
	assert.True(t, ok)
	assert.Equal(t, Desc, d)

	d, ok = ParseSortDirection("")
	assert.True(t, ok)
	assert.Equal(t, Asc, d)

	_, ok = ParseSortDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, "unknown", SortDirection(7).Name())
}

func TestJsonObjectRoundTrip(t *testing.T) {
	obj := JsonObject{"color": "red"}
	v, err := obj.Value()
	assert.NoError(t, err)

	var out JsonObject
	assert.NoError(t, out.Scan(v))
	assert.Equal(t, "red", out["color"])

	assert.NoError(t, out.Scan(nil))
	assert.Nil(t, out)
	assert.Error(t, out.Scan(42))
}
