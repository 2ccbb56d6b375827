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
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/merge"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/tomoncle/storefront/utils"
)

// Entity is a model pointer with a store-assigned key.
type Entity[T any] interface {
	*T
	repository.Keyed
}

type ResourceService[T any] interface {
	// Resource returns the resource name used for codes and logs.
	Resource() string

	// List returns one page in key order. Page and size below 1 (or nil)
	// fall back to the first page and the default size.
	List(ctx context.Context, page, size *int, direction types.SortDirection) ([]*T, error)

	// GetByID returns ErrNotFound when the record is absent.
	GetByID(ctx context.Context, id int64) (*T, error)

	// Create stores payload as a new record and returns it with its key.
	Create(ctx context.Context, payload *T) (*T, error)

	// Update overwrites the editable fields of an existing record. Absent
	// records yield ErrNotFound and nothing is written.
	Update(ctx context.Context, id int64, payload *T) (*T, error)

	// Delete reports false, without touching the store, when id is absent.
	Delete(ctx context.Context, id int64) (bool, error)
}

// Option configures a ResourceService.
type Option func(*options)

type options struct {
	logger *logrus.Logger
	now    func() time.Time
}

func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now for creation stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type resourceServiceImpl[T any, PT Entity[T]] struct {
	store  repository.DataStore[T]
	desc   Descriptor[T]
	logger *logrus.Entry
	now    func() time.Time
}

// NewResourceService builds the generic service for one resource kind.
func NewResourceService[T any, PT Entity[T]](store repository.DataStore[T], desc Descriptor[T], opts ...Option) ResourceService[T] {
	return newResourceServiceImpl[T, PT](store, desc, opts...)
}

func newResourceServiceImpl[T any, PT Entity[T]](store repository.DataStore[T], desc Descriptor[T], opts ...Option) *resourceServiceImpl[T, PT] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = utils.NewLogger("SERVICE")
	}
	return &resourceServiceImpl[T, PT]{
		store:  store,
		desc:   desc,
		logger: o.logger.WithField("resource", desc.Resource),
		now:    o.now,
	}
}

func (s *resourceServiceImpl[T, PT]) Resource() string { return s.desc.Resource }

func (s *resourceServiceImpl[T, PT]) List(ctx context.Context, page, size *int, direction types.SortDirection) ([]*T, error) {
	req := types.Normalize(page, size, direction)
	result, err := s.store.FindPage(ctx, req)
	if err != nil {
		return nil, s.fail(s.desc.Labels.List, err)
	}
	return result.Items, nil
}

func (s *resourceServiceImpl[T, PT]) GetByID(ctx context.Context, id int64) (*T, error) {
	entity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupFailure(s.desc.Labels.Get, id, err)
	}
	return entity, nil
}

func (s *resourceServiceImpl[T, PT]) Create(ctx context.Context, payload *T) (*T, error) {
	if payload == nil {
		payload = new(T)
	}
	entity := *payload
	PT(&entity).SetPrimaryKey(0)
	if s.desc.OnCreate != nil {
		s.desc.OnCreate(&entity, s.now())
	}
	saved, err := s.store.Save(ctx, &entity)
	if err != nil {
		return nil, s.fail(s.desc.Labels.Create, err)
	}
	s.logger.WithField("id", PT(saved).PrimaryKey()).Debug("created")
	return saved, nil
}

func (s *resourceServiceImpl[T, PT]) Update(ctx context.Context, id int64, payload *T) (*T, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupFailure(s.desc.Labels.Update, id, err)
	}
	merged := merge.Apply(existing, payload, s.desc.Editable)
	saved, err := s.store.Save(ctx, merged)
	if err != nil {
		return nil, s.fail(s.desc.Labels.Update, err)
	}
	return saved, nil
}

func (s *resourceServiceImpl[T, PT]) Delete(ctx context.Context, id int64) (bool, error) {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return false, s.fail(s.desc.Labels.Delete, err)
	}
	if !exists {
		s.logger.WithField("id", id).Debug("nothing to delete")
		return false, nil
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return false, s.fail(s.desc.Labels.Delete, err)
	}
	return true, nil
}

// lookupFailure passes ErrNotFound through and labels anything else.
func (s *resourceServiceImpl[T, PT]) lookupFailure(op string, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.WithFields(logrus.Fields{"operation": op, "id": id}).Debug("not found")
		return ErrNotFound
	}
	return s.fail(op, err)
}

func (s *resourceServiceImpl[T, PT]) fail(op string, err error) error {
	s.logger.WithFields(logrus.Fields{
		"operation": op,
		"kind":      database.ClassifyError(err).String(),
	}).WithError(err).Error("store failure")
	return &OperationError{Op: op, Resource: s.desc.Resource, Err: err}
}
