package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wisata/backend/internal/models"
	"github.com/wisata/backend/internal/repository"
	"github.com/wisata/backend/internal/storage"
	"github.com/wisata/backend/pkg/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImageUpload is one uploaded file, already read off the wire.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ObjectInput carries the parsed multipart form of a create or update
// request. CategoryID arrives as the raw form value.
type ObjectInput struct {
	Name        string
	Description string
	Location    string
	CategoryID  string
	Images      []ImageUpload
}

// ObjectService enforces validation and the image merge policy, and
// orchestrates the asset store and the object repository.
type ObjectService struct {
	objects    repository.ObjectRepository
	categories repository.CategoryRepository
	store      storage.AssetStore
	maxImages  int
}

func NewObjectService(objects repository.ObjectRepository, categories repository.CategoryRepository, store storage.AssetStore, maxImages int) *ObjectService {
	return &ObjectService{
		objects:    objects,
		categories: categories,
		store:      store,
		maxImages:  maxImages,
	}
}

// Create validates the input, stores the uploaded images and persists the
// record. Validation runs before any file is written, so a doomed request
// never orphans assets. Returns the new object's id.
func (s *ObjectService) Create(ctx context.Context, in ObjectInput) (uint, error) {
	categoryID, err := s.validate(ctx, in)
	if err != nil {
		return 0, err
	}

	refs, err := s.storeImages(ctx, in.Images)
	if err != nil {
		return 0, err
	}

	object := &models.Object{
		Name:        validation.SanitizeString(in.Name),
		Description: validation.SanitizeString(in.Description),
		Location:    validation.SanitizeString(in.Location),
		CategoryID:  categoryID,
		Images:      refs,
	}
	if err := s.objects.Create(ctx, object); err != nil {
		s.removeAll(ctx, refs)
		return 0, fmt.Errorf("failed to create object record: %w", err)
	}

	return object.ID, nil
}

// GetAll returns every object with its resolved category name.
func (s *ObjectService) GetAll(ctx context.Context) ([]models.ObjectView, error) {
	return s.objects.FindAll(ctx)
}

// GetByID returns one object or ErrNotFound.
func (s *ObjectService) GetByID(ctx context.Context, id uint) (*models.ObjectView, error) {
	view, err := s.objects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: object %d", ErrNotFound, id)
		}
		return nil, err
	}
	return view, nil
}

// Update replaces the scalar fields of an existing object. When new images
// are uploaded they replace the prior sequence entirely; with no uploads the
// prior sequence is carried over unchanged.
func (s *ObjectService) Update(ctx context.Context, id uint, in ObjectInput) error {
	categoryID, err := s.validate(ctx, in)
	if err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	images := existing.Images
	var stored []string
	if len(in.Images) > 0 {
		stored, err = s.storeImages(ctx, in.Images)
		if err != nil {
			return err
		}
		images = stored
	}

	object := &models.Object{
		ID:          id,
		Name:        validation.SanitizeString(in.Name),
		Description: validation.SanitizeString(in.Description),
		Location:    validation.SanitizeString(in.Location),
		CategoryID:  categoryID,
		Images:      images,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.objects.Update(ctx, object); err != nil {
		s.removeAll(ctx, stored)
		return fmt.Errorf("failed to update object record: %w", err)
	}

	return nil
}

// Delete removes the record by id. Deleting a nonexistent id succeeds, so
// the operation is idempotent. Asset files are deliberately left in place;
// an object's images may have been copied into other display contexts and
// disk space is reclaimed out of band.
func (s *ObjectService) Delete(ctx context.Context, id uint) error {
	_, err := s.objects.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete object record: %w", err)
	}
	return nil
}

// validate checks the required scalar fields and the category reference and
// returns the parsed category id.
func (s *ObjectService) validate(ctx context.Context, in ObjectInput) (uint, error) {
	missing := validation.MissingFields([]validation.Field{
		{Name: "name", Value: in.Name},
		{Name: "description", Value: in.Description},
		{Name: "location", Value: in.Location},
		{Name: "category_id", Value: in.CategoryID},
	})
	if len(missing) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}

	if len(in.Images) > s.maxImages {
		return 0, fmt.Errorf("%w: at most %d images per object", ErrValidation, s.maxImages)
	}

	categoryID, err := strconv.ParseUint(strings.TrimSpace(in.CategoryID), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: category_id must be numeric", ErrValidation)
	}

	exists, err := s.categories.Exists(ctx, uint(categoryID))
	if err != nil {
		return 0, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: category %d does not exist", ErrValidation, categoryID)
	}

	return uint(categoryID), nil
}

// storeImages routes every upload through the asset store. A failure on any
// file rolls back the files already written for this request, so a request
// either contributes all of its assets or none.
func (s *ObjectService) storeImages(ctx context.Context, uploads []ImageUpload) (datatypes.JSONSlice[string], error) {
	refs := datatypes.JSONSlice[string]{}
	for _, upload := range uploads {
		ref, err := s.store.Store(ctx, upload.Filename, bytes.NewReader(upload.Data))
		if err != nil {
			s.removeAll(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *ObjectService) removeAll(ctx context.Context, refs []string) {
	for _, ref := range refs {
		_ = s.store.Remove(ctx, ref)
	}
}
