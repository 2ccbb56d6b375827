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

// Field copies one editable attribute from src into dst.
type Field[T any] struct {
	Name string
	Copy func(dst, src *T)
}

// Set builds a Field from a getter/setter pair.
func Set[T any, V any](name string, get func(*T) V, set func(*T, V)) Field[T] {
	return Field[T]{
		Name: name,
		Copy: func(dst, src *T) { set(dst, get(src)) },
	}
}

// Fields is the ordered editable-field table of a resource.
type Fields[T any] []Field[T]

// Names returns the field names in table order.
func (fs Fields[T]) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Apply returns a copy of existing with every editable field replaced by the
// value from incoming, including zero values. Fields outside the table, such
// as the identifier and creation timestamps, keep the existing value.
// Neither argument is modified.
func Apply[T any](existing, incoming *T, fields Fields[T]) *T {
	if existing == nil {
		return nil
	}
	merged := *existing
	if incoming == nil {
		var zero T
		incoming = &zero
	}
	for _, f := range fields {
		f.Copy(&merged, incoming)
	}
	return &merged
}
