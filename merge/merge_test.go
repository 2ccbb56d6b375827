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

package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID        int64
	Name      string
	Email     string
	Tags      []string
	CreatedAt time.Time
}

var accountFields = Fields[account]{
	Set("name", func(a *account) string { return a.Name }, func(a *account, v string) { a.Name = v }),
	Set("email", func(a *account) string { return a.Email }, func(a *account, v string) { a.Email = v }),
	Set("tags", func(a *account) []string { return a.Tags }, func(a *account, v []string) { a.Tags = v }),
}

func TestApplyOverwritesEditableFields(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := &account{ID: 42, Name: "old", Email: "old@example.com", Tags: []string{"a"}, CreatedAt: created}
	incoming := &account{ID: 7, Name: "new", Email: "new@example.com", CreatedAt: time.Now()}

	merged := Apply(existing, incoming, accountFields)
	require.NotNil(t, merged)

	assert.Equal(t, int64(42), merged.ID)
	assert.Equal(t, created, merged.CreatedAt)
	assert.Equal(t, "new", merged.Name)
	assert.Equal(t, "new@example.com", merged.Email)
	assert.Nil(t, merged.Tags, "absent incoming field still overwrites")

	assert.Equal(t, "old", existing.Name, "existing must not be mutated")
}

func TestApplyEmptyPayloadClearsEditableFields(t *testing.T) {
	existing := &account{ID: 1, Name: "keep?", Email: "e"}
	merged := Apply(existing, &account{}, accountFields)
	assert.Equal(t, int64(1), merged.ID)
	assert.Empty(t, merged.Name)
	assert.Empty(t, merged.Email)

	merged = Apply(existing, nil, accountFields)
	assert.Empty(t, merged.Name)
}

func TestApplyIsIdempotent(t *testing.T) {
	existing := &account{ID: 3, Name: "a"}
	incoming := &account{Name: "b", Email: "b@example.com"}
	once := Apply(existing, incoming, accountFields)
	twice := Apply(once, incoming, accountFields)
	assert.Equal(t, once, twice)
}

func TestApplyNilExisting(t *testing.T) {
	assert.Nil(t, Apply[account](nil, &account{}, accountFields))
}

func TestFieldNames(t *testing.T) {
	assert.Equal(t, []string{"name", "email", "tags"}, accountFields.Names())
}
