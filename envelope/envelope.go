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

package envelope

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// CodeKey is the gin context key under which the rendered code is stored.
const CodeKey = "envelope_code"

// Envelope is the body of every response. Data is null on failure.
type Envelope struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(o Outcome, data interface{}) Envelope {
	return Envelope{Code: o.Code, Message: o.Message, Data: data}
}

func Failure(o Outcome) Envelope {
	return Envelope{Code: o.Code, Message: o.Message}
}

// DomainError is a failure already resolved to its resource and operation
// outcome. Err keeps the underlying cause for logs.
type DomainError struct {
	Outcome Outcome
	Err     error
}

func NewDomainError(o Outcome, err error) *DomainError {
	return &DomainError{Outcome: o, Err: err}
}

func (e *DomainError) Error() string {
	return e.Outcome.Code + ": " + e.Outcome.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// AsDomainError extracts a DomainError from an error chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Render writes a success envelope with the outcome's status.
func Render(c *gin.Context, o Outcome, data interface{}) {
	c.Set(CodeKey, o.Code)
	c.JSON(o.Status, Success(o, data))
}

// Abort writes a failure envelope and stops the handler chain. Errors that
// are not a DomainError render as fallback.
func Abort(c *gin.Context, err error, fallback Outcome) {
	o := fallback
	if de, ok := AsDomainError(err); ok {
		o = de.Outcome
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.Set(CodeKey, o.Code)
	c.AbortWithStatusJSON(o.Status, Failure(o))
}
