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

package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/storefront/envelope"
	"github.com/tomoncle/storefront/service"
)

// resourceHandler serves the five CRUD endpoints of one resource.
type resourceHandler[T any] struct {
	svc    service.ResourceService[T]
	codes  *envelope.Catalog
	paging Paging

	// checkCreate validates what binding tags cannot, on create only.
	checkCreate func(*T) error
}

func newResourceHandler[T any](svc service.ResourceService[T], codes *envelope.Catalog, paging Paging) *resourceHandler[T] {
	return &resourceHandler[T]{svc: svc, codes: codes, paging: paging}
}

func (h *resourceHandler[T]) mount(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

func (h *resourceHandler[T]) resource() string { return h.svc.Resource() }

func (h *resourceHandler[T]) list(c *gin.Context) {
	q, err := h.paging.parse(c)
	if err != nil {
		h.abort(c, envelope.OpList, err)
		return
	}
	items, err := h.svc.List(c.Request.Context(), &q.page, &q.size, q.direction)
	if err != nil {
		h.abort(c, envelope.OpList, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.resource(), envelope.OpList), items)
}

func (h *resourceHandler[T]) get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpGet, err)
		return
	}
	entity, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.abort(c, envelope.OpGet, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.resource(), envelope.OpGet), entity)
}

func (h *resourceHandler[T]) create(c *gin.Context) {
	payload := new(T)
	if err := c.ShouldBindJSON(payload); err != nil {
		h.abort(c, envelope.OpCreate, &requestError{field: "body", err: err})
		return
	}
	if h.checkCreate != nil {
		if err := h.checkCreate(payload); err != nil {
			h.abort(c, envelope.OpCreate, err)
			return
		}
	}
	created, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		h.abort(c, envelope.OpCreate, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.resource(), envelope.OpCreate), created)
}

func (h *resourceHandler[T]) update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpUpdate, err)
		return
	}
	payload := new(T)
	if err := c.ShouldBindJSON(payload); err != nil {
		h.abort(c, envelope.OpUpdate, &requestError{field: "body", err: err})
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, payload)
	if err != nil {
		h.abort(c, envelope.OpUpdate, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.resource(), envelope.OpUpdate), updated)
}

func (h *resourceHandler[T]) remove(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	if !deleted {
		h.abort(c, envelope.OpDelete, service.ErrNotFound)
		return
	}
	envelope.Render(c, h.codes.Success(h.resource(), envelope.OpDelete), nil)
}

func (h *resourceHandler[T]) abort(c *gin.Context, op envelope.Operation, err error) {
	abortWith(c, h.codes, h.resource(), op, err)
}

// abortWith resolves err to the resource's invalid, not found or operation
// failure outcome.
func abortWith(c *gin.Context, codes *envelope.Catalog, resource string, op envelope.Operation, err error) {
	var reqErr *requestError
	var outcome envelope.Outcome
	switch {
	case errors.As(err, &reqErr):
		outcome = codes.Invalid(resource)
	case service.IsNotFound(err):
		outcome = codes.NotFound(resource)
	default:
		outcome = codes.Failure(resource, op)
	}
	envelope.Abort(c, envelope.NewDomainError(outcome, err), outcome)
}
