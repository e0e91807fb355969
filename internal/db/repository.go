package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brandpulse/brandpulse/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AnalysisRepository provides analysis-record database operations
type AnalysisRepository struct {
	*Repository
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(repo *Repository) *AnalysisRepository {
	return &AnalysisRepository{Repository: repo}
}

// Create creates a new analysis record
func (r *AnalysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByIDForUser retrieves an analysis record by ID, scoped to its owner
func (r *AnalysisRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByUser retrieves a page of the user's analysis records, newest first
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*models.AnalysisRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AnalysisRecord{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*models.AnalysisRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// DeleteByIDForUser deletes an analysis record, scoped to its owner.
// Returns false when no matching record existed.
func (r *AnalysisRepository) DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.AnalysisRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted stores the AI result and metadata and flips the record to completed
func (r *AnalysisRepository) MarkCompleted(ctx context.Context, id string, result, metadata string) error {
	return r.db.WithContext(ctx).Model(&models.AnalysisRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.AnalysisStatusCompleted,
			"result":       sql.NullString{String: result, Valid: true},
			"metadata":     sql.NullString{String: metadata, Valid: true},
			"completed_at": sql.NullTime{Time: time.Now().UTC(), Valid: true},
		}).Error
}

// MarkFailed records the failure details and flips the record to failed
func (r *AnalysisRepository) MarkFailed(ctx context.Context, id string, errorDetails string) error {
	return r.db.WithContext(ctx).Model(&models.AnalysisRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.AnalysisStatusFailed,
			"error_details": sql.NullString{String: errorDetails, Valid: true},
			"completed_at":  sql.NullTime{Time: time.Now().UTC(), Valid: true},
		}).Error
}
