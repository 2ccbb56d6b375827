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
	"sync"

	"github.com/tomoncle/storefront/database"
)

var registerOnce sync.Once

// Register adds every resource model to the database model registry so the
// schema bootstrap creates their tables. Lower priority runs first.
func Register() {
	registerOnce.Do(func() {
		database.RegisteredModel(database.NewModelAdapter((*User)(nil), 10))
		database.RegisteredModel(database.NewModelAdapter((*Order)(nil), 20))
		database.RegisteredModel(database.NewModelAdapter((*Product)(nil), 30))
	})
}
