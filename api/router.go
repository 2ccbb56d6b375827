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
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/envelope"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/service"
	"github.com/tomoncle/storefront/utils"
)

// Services are the resource services mounted by the router.
type Services struct {
	Users    service.ResourceService[models.User]
	Orders   service.OrderService
	Products service.ResourceService[models.Product]
}

// HealthChecker reports database reachability and pool usage.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *database.HealthStatus
	GetStats() *database.DBStats
}

// Options configures NewRouter. Zero values select defaults.
type Options struct {
	Paging         Paging
	AllowedOrigins []string
	Catalog        *envelope.Catalog
	Logger         *logrus.Logger
	Health         HealthChecker
	// Registry receives the HTTP and Go runtime collectors and backs /metrics.
	Registry *prometheus.Registry
}

// NewRouter builds the gin engine with every route under /api plus /metrics.
func NewRouter(svcs Services, opts Options) *gin.Engine {
	if opts.Catalog == nil {
		opts.Catalog = envelope.Default()
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewLogger("HTTP")
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics := NewMetrics(opts.Registry)

	r := gin.New()
	r.Use(RequestID(), AccessLog(opts.Logger), gin.Recovery(), CORS(opts.AllowedOrigins), metrics.Handler())
	if err := r.SetTrustedProxies(nil); err != nil {
		opts.Logger.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope.Envelope{Code: "SYS1404", Message: "Route not found"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/health", healthHandler(opts.Health))

	if svcs.Users != nil {
		newResourceHandler(svcs.Users, opts.Catalog, opts.Paging).mount(api.Group("/users"))
	}
	if svcs.Products != nil {
		newResourceHandler(svcs.Products, opts.Catalog, opts.Paging).mount(api.Group("/products"))
	}
	if svcs.Orders != nil {
		orders := newResourceHandler[models.Order](svcs.Orders, opts.Catalog, opts.Paging)
		orders.checkCreate = requireOwner
		orders.mount(api.Group("/orders"))
		owned := &userOrdersHandler{svc: svcs.Orders, codes: opts.Catalog, paging: opts.Paging}
		owned.mount(api.Group("/users/:id/orders"))
	}
	return r
}

type healthResponse struct {
	Status   string                 `json:"status"`
	Time     time.Time              `json:"time"`
	Database *database.HealthStatus `json:"database,omitempty"`
	Pool     *database.DBStats      `json:"pool,omitempty"`
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := healthResponse{Status: "UP", Time: time.Now()}
		if checker == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
		resp.Database = checker.HealthCheck(c.Request.Context())
		resp.Pool = checker.GetStats()
		if resp.Database == nil || !resp.Database.Healthy {
			resp.Status = "DOWN"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
