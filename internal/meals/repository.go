package meals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

// Repository provides persistence for meals and their recipes.
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

// Create inserts the meal together with its recipe rows.
func (r *Repository) Create(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// Update saves the meal row and replaces its recipe.
func (r *Repository) Update(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealIngredient{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Omit("Ingredients").Save(meal).Error; err != nil {
		return nil, err
	}
	if len(meal.Ingredients) > 0 {
		if err := tx.Create(&meal.Ingredients).Error; err != nil {
			return nil, err
		}
	}
	return meal, nil
}

// Delete removes a meal by ID. Recipe rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("meal_id = ?", id).Delete(&models.MealIngredient{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Meal{}).Error
}

// FindByID loads a meal with its recipe.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		First(&meal, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// ListAll returns every meal with recipes, ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Meal, error) {
	var rows []models.Meal
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// List returns a page of meals with recipes using a created_at cursor.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Meal, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Meal{}).Preload("Ingredients")
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Meal
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
