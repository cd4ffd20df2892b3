package alerts

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

// Repository provides persistence for alerts.
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

// Create inserts a single alert row.
func (r *Repository) Create(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

// CreateMany inserts each alert independently and aggregates failures so one
// bad row does not suppress the rest of the batch.
func (r *Repository) CreateMany(ctx context.Context, alerts []models.Alert) error {
	var errs error
	for i := range alerts {
		if err := r.db.WithContext(ctx).Create(&alerts[i]).Error; err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// List returns a page of alerts using a created_at cursor, newest first.
// When unreadOnly is set, read alerts are excluded.
func (r *Repository) List(ctx context.Context, params pagination.Params, unreadOnly bool) ([]models.Alert, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Alert{})
	if unreadOnly {
		qb = qb.Where("read_at IS NULL")
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Alert
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// FindByID loads a single alert.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// MarkRead stamps the alert's read_at. Already-read alerts keep their stamp.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND read_at IS NULL", id).
		UpdateColumn("read_at", gorm.Expr("CURRENT_TIMESTAMP")).
		Error
}

// MarkAllRead stamps read_at on every unread alert.
func (r *Repository) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("read_at IS NULL").
		UpdateColumn("read_at", gorm.Expr("CURRENT_TIMESTAMP")).
		Error
}

// HasUnreadWithMessage reports whether an unread alert with this exact message
// already exists. Used to keep sweeps from stacking duplicates.
func (r *Repository) HasUnreadWithMessage(ctx context.Context, message string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("message = ? AND read_at IS NULL", message).
		Count(&count).
		Error
	return count > 0, err
}
