package serving

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

// Repository provides persistence for serving records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a serving record. Records are append-only.
func (r *Repository) Create(ctx context.Context, record *models.ServingRecord) (*models.ServingRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// List returns a page of serving records, newest served first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.ServingRecord, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.ServingRecord{})
	if cursor != nil {
		qb = qb.Where("(served_at < ?) OR (served_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ServingRecord
	if err := qb.Order("served_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.ServedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// ListBetween returns every record served in [from, to).
func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.ServingRecord, error) {
	var rows []models.ServingRecord
	err := r.db.WithContext(ctx).
		Where("served_at >= ? AND served_at < ?", from, to).
		Order("served_at ASC").
		Find(&rows).Error
	return rows, err
}
