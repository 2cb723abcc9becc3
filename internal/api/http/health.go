package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 1 * time.Second

// HealthResponse reports the service and the reachability of its two backing
// stores. The ledger itself only needs the database; the snapshot cache is
// optional and reports "disabled" when the service runs without it.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Cache     string    `json:"cache,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, cache *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := h.cache.Ping(pingCtx).Err(); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	// A dead cache only costs read latency; a dead database takes the
	// ledger down with it.
	status := "healthy"
	if dbStatus == "down" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
