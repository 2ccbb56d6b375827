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
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/tomoncle/storefront/envelope"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/service"
)

// requireOwner rejects an order created without its owning user. Updates
// keep the stored owner and ignore user_id.
func requireOwner(o *models.Order) error {
	if o.UserID < 1 {
		return &requestError{field: "user_id", err: fmt.Errorf("must be at least 1")}
	}
	return nil
}

// userOrdersHandler serves the orders of one user under /users/:id/orders.
// The user parameter shares the :id name with the user routes because gin
// requires one wildcard name per path segment.
type userOrdersHandler struct {
	svc    service.OrderService
	codes  *envelope.Catalog
	paging Paging
}

func (h *userOrdersHandler) mount(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.DELETE("", h.removeAll)
	g.GET("/:order_id", h.get)
	g.DELETE("/:order_id", h.remove)
}

func (h *userOrdersHandler) abort(c *gin.Context, op envelope.Operation, err error) {
	abortWith(c, h.codes, h.svc.Resource(), op, err)
}

func (h *userOrdersHandler) list(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpList, err)
		return
	}
	q, err := h.paging.parse(c)
	if err != nil {
		h.abort(c, envelope.OpList, err)
		return
	}
	orders, err := h.svc.ListByUser(c.Request.Context(), userID, &q.page, &q.size, q.direction)
	if err != nil {
		h.abort(c, envelope.OpList, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.svc.Resource(), envelope.OpList), orders)
}

func (h *userOrdersHandler) get(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpGet, err)
		return
	}
	id, err := pathID(c, "order_id")
	if err != nil {
		h.abort(c, envelope.OpGet, err)
		return
	}
	order, err := h.svc.GetByUser(c.Request.Context(), userID, id)
	if err != nil {
		h.abort(c, envelope.OpGet, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.svc.Resource(), envelope.OpGet), order)
}

func (h *userOrdersHandler) remove(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	id, err := pathID(c, "order_id")
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	deleted, err := h.svc.DeleteByUser(c.Request.Context(), userID, id)
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	if !deleted {
		h.abort(c, envelope.OpDelete, service.ErrNotFound)
		return
	}
	envelope.Render(c, h.codes.Success(h.svc.Resource(), envelope.OpDelete), nil)
}

func (h *userOrdersHandler) removeAll(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	n, err := h.svc.DeleteAllByUser(c.Request.Context(), userID)
	if err != nil {
		h.abort(c, envelope.OpDelete, err)
		return
	}
	envelope.Render(c, h.codes.Success(h.svc.Resource(), envelope.OpDelete), gin.H{"deleted": n})
}
