package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/internal/competitor"
	"github.com/brandpulse/brandpulse/internal/db"
	"github.com/brandpulse/brandpulse/pkg/logging"
)

// Router sets up API routes
type Router struct {
	competitors *CompetitorAPI
	db          *db.DB
	logger      *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, service *competitor.Service) *Router {
	repo := db.NewAnalysisRepository(db.NewRepository(database.DB))
	return &Router{
		competitors: NewCompetitorAPI(service, repo),
		db:          database,
		logger:      logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Competitor analysis API
	competitors := engine.Group("/api/competitors", AuthRequired())
	competitors.POST("/analyze", r.competitors.Analyze)
	competitors.GET("/analysis/:analysisId", r.competitors.GetAnalysis)
	competitors.GET("/history", r.competitors.History)
	competitors.DELETE("/analysis/:analysisId", r.competitors.DeleteAnalysis)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "brandpulse-api",
	})
}
