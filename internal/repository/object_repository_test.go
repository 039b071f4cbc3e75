package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/wisata/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	return category
}

func TestObjectViewResolvesCategoryName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObjectRepository(db)
	category := seedCategory(t, db, "Nature")

	object := &models.Object{
		Name:        "Lake View",
		Description: "Scenic lake",
		Location:    "Hillside",
		CategoryID:  category.ID,
		Images:      datatypes.JSONSlice[string]{"/uploads/a.png", "/uploads/b.png"},
	}
	if err := repo.Create(context.Background(), object); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if object.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	view, err := repo.FindByID(context.Background(), object.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if view.CategoryName == nil || *view.CategoryName != "Nature" {
		t.Errorf("CategoryName = %v, want Nature", view.CategoryName)
	}
	if len(view.Images) != 2 {
		t.Fatalf("Images length = %d, want 2", len(view.Images))
	}
	if view.ImageURL != "/uploads/a.png" {
		t.Errorf("ImageURL = %q, want first image", view.ImageURL)
	}

	views, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("FindAll returned %d views, want 1", len(views))
	}
	if views[0].CategoryName == nil || *views[0].CategoryName != "Nature" {
		t.Errorf("FindAll CategoryName = %v, want Nature", views[0].CategoryName)
	}
}

func TestObjectViewNilCategoryNameAfterCategoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObjectRepository(db)
	categoryRepo := NewCategoryRepository(db)
	category := seedCategory(t, db, "Nature")

	object := &models.Object{
		Name:        "Lake View",
		Description: "Scenic lake",
		Location:    "Hillside",
		CategoryID:  category.ID,
	}
	if err := repo.Create(context.Background(), object); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := categoryRepo.Delete(context.Background(), category.ID); err != nil {
		t.Fatalf("Category delete failed: %v", err)
	}

	view, err := repo.FindByID(context.Background(), object.ID)
	if err != nil {
		t.Fatalf("FindByID failed after category delete: %v", err)
	}
	if view.CategoryName != nil {
		t.Errorf("CategoryName = %q, want nil after category delete", *view.CategoryName)
	}
}

func TestObjectUpdatePersistsNewValues(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObjectRepository(db)
	category := seedCategory(t, db, "Nature")

	object := &models.Object{
		Name:        "Lake View",
		Description: "Scenic lake",
		Location:    "Hillside",
		CategoryID:  category.ID,
		Images:      datatypes.JSONSlice[string]{"/uploads/a.png"},
	}
	if err := repo.Create(context.Background(), object); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	object.Name = "Mountain View"
	object.Images = datatypes.JSONSlice[string]{"/uploads/c.png"}
	if err := repo.Update(context.Background(), object); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	view, err := repo.FindByID(context.Background(), object.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if view.Name != "Mountain View" {
		t.Errorf("Name = %q, want Mountain View", view.Name)
	}
	if len(view.Images) != 1 || view.Images[0] != "/uploads/c.png" {
		t.Errorf("Images = %v, want [/uploads/c.png]", view.Images)
	}
}

func TestObjectFindByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObjectRepository(db)

	_, err := repo.FindByID(context.Background(), 9999)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestObjectDeleteIsLenient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObjectRepository(db)
	category := seedCategory(t, db, "Nature")

	object := &models.Object{
		Name:        "Lake View",
		Description: "Scenic lake",
		Location:    "Hillside",
		CategoryID:  category.ID,
	}
	if err := repo.Create(context.Background(), object); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.Delete(context.Background(), object.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !found {
		t.Error("Delete of existing object reported found=false")
	}

	// Deleting again and deleting an unknown id are both no-op successes
	for _, id := range []uint{object.ID, 12345} {
		found, err := repo.Delete(context.Background(), id)
		if err != nil {
			t.Errorf("Delete(%d) returned error: %v", id, err)
		}
		if found {
			t.Errorf("Delete(%d) reported found=true for missing row", id)
		}
	}
}
