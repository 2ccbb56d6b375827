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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/database/dbtest"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type response struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeHealth struct{ healthy bool }

func (f fakeHealth) HealthCheck(context.Context) *database.HealthStatus {
	return &database.HealthStatus{Healthy: f.healthy, Connected: f.healthy}
}

func (f fakeHealth) GetStats() *database.DBStats { return &database.DBStats{MaxOpenConns: 1} }

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newServices(db *bun.DB) Services {
	logger := nullLogger()
	return Services{
		Users:    service.NewResourceService[models.User](repository.NewRepository[models.User](db), service.UserDescriptor, service.WithLogger(logger)),
		Orders:   service.NewOrderService(repository.NewRepository[models.Order](db), service.WithLogger(logger)),
		Products: service.NewResourceService[models.Product](repository.NewRepository[models.Product](db), service.ProductDescriptor, service.WithLogger(logger)),
	}
}

func newTestRouter(t *testing.T, paging Paging) *gin.Engine {
	db := dbtest.Open(t, (*models.User)(nil), (*models.Order)(nil), (*models.Product)(nil))
	return NewRouter(newServices(db), Options{Paging: paging, Logger: nullLogger(), Health: fakeHealth{healthy: true}})
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestProductLifecycle(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})

	w, resp := do(t, r, http.MethodPost, "/api/products", map[string]interface{}{"name": "lamp", "price": 12.5, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "PRO2003", resp.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Positive(t, created.ID)

	w, resp = do(t, r, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PRO2002", resp.Code)

	w, resp = do(t, r, http.MethodPut, fmt.Sprintf("/api/products/%d", created.ID), map[string]interface{}{"name": "desk lamp"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PRO2004", resp.Code)
	var updated models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "desk lamp", updated.Name)
	assert.Zero(t, updated.Price)

	w, resp = do(t, r, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PRO2005", resp.Code)
	assert.Equal(t, "null", string(resp.Data))

	w, resp = do(t, r, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRO1006", resp.Code)

	w, resp = do(t, r, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRO1006", resp.Code)
}

func TestListPagingAndValidation(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200, MaxSize: 50})
	for i := 1; i <= 25; i++ {
		w, _ := do(t, r, http.MethodPost, "/api/users", map[string]interface{}{"username": fmt.Sprintf("user%02d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := do(t, r, http.MethodGet, "/api/users?page=2&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "USR2001", resp.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(resp.Data, &users))
	require.Len(t, users, 10)
	assert.Equal(t, "user11", users[0].Username)
	assert.Equal(t, "user20", users[9].Username)

	_, resp = do(t, r, http.MethodGet, "/api/users", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &users))
	assert.Len(t, users, 25)

	_, resp = do(t, r, http.MethodGet, "/api/users?order_by=desc&size=1", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "user25", users[0].Username)

	for _, query := range []string{"page=0", "page=-1", "size=0", "size=abc", "size=51", "order_by=sideways"} {
		w, resp := do(t, r, http.MethodGet, "/api/users?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.Equal(t, "USR1000", resp.Code, query)
		assert.Equal(t, "null", string(resp.Data), query)
	}
}

func TestInvalidRequests(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})

	cases := []struct {
		method, path string
		body         interface{}
		code         string
	}{
		{http.MethodGet, "/api/products/abc", nil, "PRO1000"},
		{http.MethodGet, "/api/products/0", nil, "PRO1000"},
		{http.MethodPost, "/api/products", "{not json", "PRO1000"},
		{http.MethodPost, "/api/products", map[string]interface{}{"price": 1}, "PRO1000"},
		{http.MethodPost, "/api/users", map[string]interface{}{"username": "x", "email": "nope"}, "USR1000"},
		{http.MethodPost, "/api/orders", map[string]interface{}{"status": "new"}, "ORD1000"},
		{http.MethodPut, "/api/users/-4", map[string]interface{}{"username": "x"}, "USR1000"},
	}
	for _, tc := range cases {
		w, resp := do(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Equal(t, tc.code, resp.Code, tc.path)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})

	w, resp := do(t, r, http.MethodPut, "/api/users/42", map[string]interface{}{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USR1006", resp.Code)

	_, resp = do(t, r, http.MethodGet, "/api/users", nil)
	assert.JSONEq(t, "[]", string(resp.Data))
}

func TestUserOrders(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})
	for _, userID := range []int{1, 1, 2} {
		w, _ := do(t, r, http.MethodPost, "/api/orders", map[string]interface{}{"user_id": userID, "status": "new"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := do(t, r, http.MethodGet, "/api/users/1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORD2001", resp.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &orders))
	assert.Len(t, orders, 2)

	w, resp = do(t, r, http.MethodGet, "/api/users/1/orders/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORD1006", resp.Code)

	w, _ = do(t, r, http.MethodGet, "/api/users/2/orders/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = do(t, r, http.MethodDelete, "/api/users/2/orders/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORD2005", resp.Code)

	w, resp = do(t, r, http.MethodDelete, "/api/users/1/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, string(resp.Data))

	w, resp = do(t, r, http.MethodGet, "/api/users/x/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORD1000", resp.Code)
}

func TestStoreFailureRendersOperationCode(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()
	for i := 0; i < 3; i++ {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))
	}

	r := NewRouter(newServices(db), Options{Paging: Paging{DefaultSize: 200}, Logger: nullLogger()})

	w, resp := do(t, r, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PRO1001", resp.Code)
	assert.Equal(t, "Cannot get all products", resp.Message)

	w, resp = do(t, r, http.MethodGet, "/api/products/1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PRO1003", resp.Code)
}

// brokenWrites passes reads through and fails every mutation.
type brokenWrites[T any] struct {
	repository.DataStore[T]
	err error
}

func (s brokenWrites[T]) Save(context.Context, *T) (*T, error) { return nil, s.err }

func (s brokenWrites[T]) DeleteByID(context.Context, int64) error { return s.err }

func TestWriteFailuresRenderOperationCode(t *testing.T) {
	db := dbtest.Open(t, (*models.Product)(nil))
	store := repository.NewRepository[models.Product](db)
	_, err := store.Save(context.Background(), &models.Product{Name: "lamp"})
	require.NoError(t, err)

	failing := brokenWrites[models.Product]{DataStore: store, err: errors.New("database is locked")}
	svcs := Services{Products: service.NewResourceService[models.Product](failing, service.ProductDescriptor, service.WithLogger(nullLogger()))}
	r := NewRouter(svcs, Options{Paging: Paging{DefaultSize: 200}, Logger: nullLogger()})

	cases := []struct {
		method, path string
		body         interface{}
		code, msg    string
	}{
		{http.MethodPost, "/api/products", map[string]interface{}{"name": "desk"}, "PRO1002", "Cannot create new product"},
		{http.MethodPut, "/api/products/1", map[string]interface{}{"name": "desk lamp"}, "PRO1004", "Cannot update existing product"},
		{http.MethodDelete, "/api/products/1", nil, "PRO1005", "Cannot delete existing product"},
	}
	for _, tc := range cases {
		w, resp := do(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.method)
		assert.Equal(t, tc.code, resp.Code, tc.method)
		assert.Equal(t, tc.msg, resp.Message, tc.method)
	}

	got, err := store.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "lamp", got.Name)
}

func TestPageBeyondAddressableRows(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})
	for i := 0; i < 5; i++ {
		w, _ := do(t, r, http.MethodPost, "/api/products", map[string]interface{}{"name": fmt.Sprintf("p%d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := do(t, r, http.MethodGet, "/api/products?page=4611686018427387905&size=4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PRO2001", resp.Code)
	assert.JSONEq(t, "[]", string(resp.Data))
}

func TestOrderOwnerRequiredOnlyOnCreate(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})

	w, resp := do(t, r, http.MethodPost, "/api/orders", map[string]interface{}{"user_id": 0, "status": "new"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORD1000", resp.Code)

	w, resp = do(t, r, http.MethodPost, "/api/orders", map[string]interface{}{"user_id": 7, "status": "new"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	w, resp = do(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d", created.ID), map[string]interface{}{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORD2004", resp.Code)
	var updated models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, int64(7), updated.UserID)
	assert.Equal(t, "paid", updated.Status)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, Paging{DefaultSize: 200})

	w, _ := do(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"UP"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	down := NewRouter(Services{}, Options{Logger: nullLogger(), Health: fakeHealth{}})
	w, _ = do(t, down, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	do(t, r, http.MethodGet, "/api/products", nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mw := httptest.NewRecorder()
	r.ServeHTTP(mw, req)
	assert.Equal(t, http.StatusOK, mw.Code)
	assert.Contains(t, mw.Body.String(), `storefront_http_responses_total{code="PRO2001",method="GET",route="/api/products",status="200"} 1`)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := newTestRouter(t, Paging{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
