package repository

import (
	"context"
	"testing"

	"github.com/wisata/backend/internal/models"
)

func TestCategoryExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	category := seedCategory(t, db, "Culture")

	exists, err := repo.Exists(context.Background(), category.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Exists = false for seeded category")
	}

	exists, err = repo.Exists(context.Background(), 9999)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists = true for unknown id")
	}
}

func TestCategoryFindAllOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	seedCategory(t, db, "Nature")
	seedCategory(t, db, "Culture")

	categories, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("FindAll returned %d categories, want 2", len(categories))
	}
	if categories[0].Name != "Nature" || categories[1].Name != "Culture" {
		t.Errorf("FindAll order = [%s, %s], want insertion order", categories[0].Name, categories[1].Name)
	}
}

func TestCategoryDeleteIsLenient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)

	found, err := repo.Delete(context.Background(), 404)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if found {
		t.Error("Delete of unknown category reported found=true")
	}

	category := &models.Category{Name: "Nature"}
	if err := repo.Create(context.Background(), category); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	found, err = repo.Delete(context.Background(), category.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !found {
		t.Error("Delete of existing category reported found=false")
	}
}
