package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	db "github.com/Finix99/smartship/db/sqlc"
	"github.com/Finix99/smartship/shipping"
	"github.com/Finix99/smartship/util"
	"github.com/Finix99/smartship/worker"
)

// geocodeRatePerMinute caps per-IP quote requests, since address-only
// quotes can fan out to the upstream geocoding service.
const geocodeRatePerMinute = 60

// Server serves HTTP requests for the shipping rate service.
type Server struct {
	config          util.Config
	store           db.Store
	quoter          *shipping.Quoter
	taskDistributor worker.TaskDistributor
	rateLimiter     *RateLimiter
	router          *gin.Engine
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer(config util.Config, store db.Store, quoter *shipping.Quoter, taskDistributor worker.TaskDistributor) (*Server, error) {
	if config.APIKey == "" {
		return nil, errors.New("API_KEY must be configured")
	}

	server := &Server{
		config:          config,
		store:           store,
		quoter:          quoter,
		taskDistributor: taskDistributor,
		rateLimiter:     NewRateLimiter(DefaultRateLimiterConfig()),
	}

	server.setupRouter()
	return server, nil
}

func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())
	router.Use(PrometheusMiddleware())

	router.GET("/metrics", MetricsHandler())
	router.GET("/health", server.healthCheck)
	router.GET("/ready", server.readinessCheck)

	v1 := router.Group("/v1")
	v1.Use(server.rateLimiter.Middleware())
	v1.Use(apiKeyMiddleware(server.config.APIKey))
	{
		v1.POST("/rates/quote", server.rateLimiter.GeocodeAPIMiddleware(geocodeRatePerMinute), server.quoteRate)
		v1.POST("/deliveries/report", server.reportDelivery)
		v1.GET("/rates/history", server.listHistory)
	}

	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// GetRouter returns the gin router for creating an http.Server
func (server *Server) GetRouter() *gin.Engine {
	return server.router
}

// healthCheck - basic liveness check
// GET /health
func (server *Server) healthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      "smartship-api",
		"model_loaded": server.quoter.ModelLoaded(),
	})
}

// readinessCheck - checks dependent services
// GET /ready
func (server *Server) readinessCheck(ctx *gin.Context) {
	if err := server.store.Ping(ctx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "database connection failed",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"service":  "smartship-api",
		"database": "connected",
	})
}

// errorResponse creates an error response.
// For 4xx client errors: returns the actual error message.
// 5xx paths log the cause and return a generic message instead.
func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
