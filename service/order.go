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
	"context"
	"errors"

	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
)

// Operation labels of the per-user order lookups.
const (
	OpRetrieveOrdersByUser  = "RetrieveOrdersByUserId"
	OpRetrieveOrderByUser   = "RetrieveOrderByUserIdAndId"
	OpDeleteOrderByUser     = "DeleteOrderByUserIdAndId"
	OpDeleteAllOrdersByUser = "DeleteOrdersByUserId"
)

// OrderService adds lookups scoped to the owning user.
type OrderService interface {
	ResourceService[models.Order]

	ListByUser(ctx context.Context, userID int64, page, size *int, direction types.SortDirection) ([]*models.Order, error)

	// GetByUser returns ErrNotFound when the order is absent or belongs to
	// another user.
	GetByUser(ctx context.Context, userID, id int64) (*models.Order, error)

	DeleteByUser(ctx context.Context, userID, id int64) (bool, error)

	// DeleteAllByUser returns how many orders were removed.
	DeleteAllByUser(ctx context.Context, userID int64) (int64, error)
}

type orderServiceImpl struct {
	*resourceServiceImpl[models.Order, *models.Order]
}

func NewOrderService(store repository.DataStore[models.Order], opts ...Option) OrderService {
	return &orderServiceImpl{newResourceServiceImpl[models.Order, *models.Order](store, OrderDescriptor, opts...)}
}

func byUser(userID int64) *types.QueryFilter {
	return types.NewQueryFilter("user_id = ?", userID)
}

func byUserAndID(userID, id int64) *types.QueryFilter {
	return types.NewQueryFilter("user_id = ? AND id = ?", userID, id)
}

func (s *orderServiceImpl) ListByUser(ctx context.Context, userID int64, page, size *int, direction types.SortDirection) ([]*models.Order, error) {
	result, err := s.store.FindPageBy(ctx, byUser(userID), types.Normalize(page, size, direction))
	if err != nil {
		return nil, s.fail(OpRetrieveOrdersByUser, err)
	}
	return result.Items, nil
}

func (s *orderServiceImpl) GetByUser(ctx context.Context, userID, id int64) (*models.Order, error) {
	order, err := s.store.FindOne(ctx, byUserAndID(userID, id))
	if err != nil {
		return nil, s.lookupFailure(OpRetrieveOrderByUser, id, err)
	}
	return order, nil
}

func (s *orderServiceImpl) DeleteByUser(ctx context.Context, userID, id int64) (bool, error) {
	if _, err := s.store.FindOne(ctx, byUserAndID(userID, id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, s.fail(OpDeleteOrderByUser, err)
	}
	if _, err := s.store.DeleteBy(ctx, byUserAndID(userID, id)); err != nil {
		return false, s.fail(OpDeleteOrderByUser, err)
	}
	return true, nil
}

func (s *orderServiceImpl) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.DeleteBy(ctx, byUser(userID))
	if err != nil {
		return 0, s.fail(OpDeleteAllOrdersByUser, err)
	}
	return n, nil
}
