package repository

import (
	"context"

	"github.com/wisata/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ObjectRepository defines durable storage for catalog objects. Reads return
// the row augmented with the category name resolved via a left join, so a
// deleted category degrades to a nil name instead of failing the read.
type ObjectRepository interface {
	Create(ctx context.Context, object *models.Object) error
	Update(ctx context.Context, object *models.Object) error
	FindAll(ctx context.Context) ([]models.ObjectView, error)
	FindByID(ctx context.Context, id uint) (*models.ObjectView, error)
	// Delete removes the record by id. A missing id is not an error; the
	// returned bool reports whether a row was actually removed.
	Delete(ctx context.Context, id uint) (bool, error)
}

type gormObjectRepository struct {
	db *gorm.DB
}

// NewObjectRepository creates a GORM-backed ObjectRepository.
func NewObjectRepository(db *gorm.DB) ObjectRepository {
	return &gormObjectRepository{db: db}
}

const objectViewSelect = "objects.*, categories.name AS category_name"

func (r *gormObjectRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Object{}).
		Select(objectViewSelect).
		Joins("LEFT JOIN categories ON categories.id = objects.category_id")
}

func (r *gormObjectRepository) Create(ctx context.Context, object *models.Object) error {
	return r.db.WithContext(ctx).Create(object).Error
}

func (r *gormObjectRepository) Update(ctx context.Context, object *models.Object) error {
	return r.db.WithContext(ctx).Save(object).Error
}

func (r *gormObjectRepository) FindAll(ctx context.Context) ([]models.ObjectView, error) {
	var views []models.ObjectView
	if err := r.viewQuery(ctx).Order("objects.id").Find(&views).Error; err != nil {
		return nil, err
	}
	for i := range views {
		normalizeView(&views[i])
	}
	return views, nil
}

func (r *gormObjectRepository) FindByID(ctx context.Context, id uint) (*models.ObjectView, error) {
	var view models.ObjectView
	if err := r.viewQuery(ctx).Where("objects.id = ?", id).Take(&view).Error; err != nil {
		return nil, err
	}
	normalizeView(&view)
	return &view, nil
}

func (r *gormObjectRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Object{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// normalizeView keeps the JSON shape stable: images always an array, and the
// first image surfaced as image_url for single-image display contexts.
func normalizeView(view *models.ObjectView) {
	if view.Images == nil {
		view.Images = datatypes.JSONSlice[string]{}
	}
	if len(view.Images) > 0 {
		view.ImageURL = view.Images[0]
	}
}
