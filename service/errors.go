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

package service

import (
	"errors"

	"github.com/tomoncle/storefront/repository"
)

// ErrNotFound reports that the addressed record does not exist.
var ErrNotFound = repository.ErrNotFound

// OperationError is a store failure labelled with the operation that hit it.
// Error exposes only the label; the cause stays reachable through Unwrap.
type OperationError struct {
	Op       string
	Resource string
	Err      error
}

func (e *OperationError) Error() string { return e.Op }

func (e *OperationError) Unwrap() error { return e.Err }

// IsStoreFailure reports whether err is an OperationError.
func IsStoreFailure(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr)
}

// IsNotFound reports whether err means the record is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
