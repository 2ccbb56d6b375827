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

package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestSlowQueryHook(t *testing.T) {
	logger, hook := test.NewNullLogger()
	slow := NewSlowQueryHook(10*time.Millisecond, NewLogrusLogger(logger))

	slow.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, hook.AllEntries())

	slow.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second), Err: errors.New("boom")})
	assert.Empty(t, hook.AllEntries())

	slow.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT * FROM orders", StartTime: time.Now().Add(-time.Second)})
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "SELECT * FROM orders", entry.Data["query"])
	assert.Equal(t, "SELECT", entry.Data["operation"])
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:ensure_schema?mode=memory&cache=shared")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	logger, hook := test.NewNullLogger()
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db, NewLogrusLogger(logger), (*widget)(nil)))
	require.NoError(t, EnsureSchema(ctx, db, NewLogrusLogger(logger), (*widget)(nil)))
	assert.Len(t, hook.AllEntries(), 2)

	_, err = db.NewInsert().Model(&widget{Name: "bolt"}).Exec(ctx)
	assert.NoError(t, err)
}

type ordered struct {
	bun.BaseModel `bun:"table:ordered"`
	ID            int64 `bun:"id,pk"`
}

func TestModelRegistryOrdersAndDeduplicates(t *testing.T) {
	r := newModelRegistry()
	r.Register(NewModelAdapter((*ordered)(nil), 20))
	r.Register(NewModelAdapter((*widget)(nil), 10))
	r.Register(NewModelAdapter((*ordered)(nil), 5))

	models := r.Models()
	require.Len(t, models, 2)
	assert.Equal(t, 10, models[0].Priority())
	assert.IsType(t, (*widget)(nil), models[0].Instance())
	assert.Equal(t, 20, models[1].Priority())
}

func TestLogrusLoggerFields(t *testing.T) {
	logger, hook := test.NewNullLogger()
	l := NewLogrusLogger(logger)

	l.Info("connected", "type", "sqlite", "tries", 2, "dangling")
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "sqlite", entry.Data["type"])
	assert.Equal(t, 2, entry.Data["tries"])
	assert.Equal(t, "dangling", entry.Data["extra"])

	l.SetLevel(LogLevelError)
	l.Warn("hidden")
	assert.Equal(t, "connected", hook.LastEntry().Message)
}
