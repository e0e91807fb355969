package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/internal/ai"
	"github.com/brandpulse/brandpulse/internal/competitor"
	"github.com/brandpulse/brandpulse/internal/db"
	"github.com/brandpulse/brandpulse/internal/models"
	"github.com/brandpulse/brandpulse/internal/platform"
	"github.com/brandpulse/brandpulse/pkg/logging"
)

// CompetitorAPI serves the competitor-analysis HTTP surface
type CompetitorAPI struct {
	service *competitor.Service
	repo    *db.AnalysisRepository
	logger  *zap.Logger
}

// NewCompetitorAPI creates the competitor handlers
func NewCompetitorAPI(service *competitor.Service, repo *db.AnalysisRepository) *CompetitorAPI {
	return &CompetitorAPI{
		service: service,
		repo:    repo,
		logger:  logging.GetLogger().With(zap.String("component", "competitor-api")),
	}
}

// Analyze handles POST /api/competitors/analyze
func (a *CompetitorAPI) Analyze(c *gin.Context) {
	var req competitor.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	response, err := a.service.Analyze(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		a.writeAnalyzeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// writeAnalyzeError maps orchestrator errors onto the HTTP surface
func (a *CompetitorAPI) writeAnalyzeError(c *gin.Context, err error) {
	var allFailed *competitor.AllFailedError
	var serviceErr *ai.ServiceError

	switch {
	case errors.Is(err, competitor.ErrNoProfiles),
		errors.Is(err, competitor.ErrTooManyProfiles),
		errors.Is(err, platform.ErrInvalidProfileURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &allFailed):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              "all competitor profiles failed collection",
			"failed_competitors": allFailed.Failures,
		})
	case errors.As(err, &serviceErr):
		a.logger.Error("AI service failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis service unavailable"})
	default:
		a.logger.Error("Analysis request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
	}
}

// GetAnalysis handles GET /api/competitors/analysis/:analysisId
func (a *CompetitorAPI) GetAnalysis(c *gin.Context) {
	record, err := a.repo.GetByIDForUser(c.Request.Context(), c.Param("analysisId"), currentUserID(c))
	if err != nil {
		a.logger.Error("Failed to fetch analysis record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch analysis"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	c.JSON(http.StatusOK, recordView(record))
}

// History handles GET /api/competitors/history
func (a *CompetitorAPI) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, total, err := a.repo.ListByUser(c.Request.Context(), currentUserID(c), page, limit)
	if err != nil {
		a.logger.Error("Failed to list analysis history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	views := make([]gin.H, 0, len(records))
	for _, record := range records {
		views = append(views, recordView(record))
	}

	c.JSON(http.StatusOK, gin.H{
		"analyses": views,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// DeleteAnalysis handles DELETE /api/competitors/analysis/:analysisId
func (a *CompetitorAPI) DeleteAnalysis(c *gin.Context) {
	deleted, err := a.repo.DeleteByIDForUser(c.Request.Context(), c.Param("analysisId"), currentUserID(c))
	if err != nil {
		a.logger.Error("Failed to delete analysis record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete analysis"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// recordView renders a persisted record, expanding its JSON columns
func recordView(record *models.AnalysisRecord) gin.H {
	view := gin.H{
		"analysis_id": record.ID,
		"status":      record.Status,
		"created_at":  record.CreatedAt,
	}
	if record.CampaignID.Valid {
		view["campaign_id"] = record.CampaignID.String
	}
	if record.CompletedAt.Valid {
		view["completed_at"] = record.CompletedAt.Time
	}
	view["request"] = json.RawMessage(record.RequestParams)
	if record.Result.Valid {
		view["result"] = json.RawMessage(record.Result.String)
	}
	if record.Metadata.Valid {
		view["metadata"] = json.RawMessage(record.Metadata.String)
	}
	if record.ErrorDetails.Valid {
		view["error_details"] = json.RawMessage(record.ErrorDetails.String)
	}
	return view
}
