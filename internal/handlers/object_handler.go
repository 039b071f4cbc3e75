package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wisata/backend/internal/models"
	"github.com/wisata/backend/internal/services"
	"github.com/wisata/backend/internal/storage"
)

// ObjectHandler adapts the HTTP surface to the ObjectService. It only parses
// multipart bodies into the service's input shape and translates results and
// failures into status codes; no business logic lives here.
type ObjectHandler struct {
	objectService *services.ObjectService
	maxMemory     int64
}

func NewObjectHandler(objectService *services.ObjectService, maxMemory int64) *ObjectHandler {
	return &ObjectHandler{
		objectService: objectService,
		maxMemory:     maxMemory,
	}
}

// CreateObject handles object creation
// POST /api/objects/create
// Multipart form: name, description, location, category_id, images (0..5 files)
func (h *ObjectHandler) CreateObject(c *gin.Context) {
	in, err := h.parseObjectForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.objectService.Create(c.Request.Context(), in)
	if err != nil {
		respondObjectError(c, err, "Failed to create object")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Object created", "id": id})
}

// GetAllObjects returns every object with its resolved category name
// GET /api/objects/get-all
func (h *ObjectHandler) GetAllObjects(c *gin.Context) {
	objects, err := h.objectService.GetAll(c.Request.Context())
	if err != nil {
		respondObjectError(c, err, "Failed to fetch objects")
		return
	}
	if objects == nil {
		objects = []models.ObjectView{}
	}
	c.JSON(http.StatusOK, objects)
}

// GetObjectByID returns one object
// GET /api/objects/get-by-id/:id
func (h *ObjectHandler) GetObjectByID(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
		return
	}

	object, err := h.objectService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondObjectError(c, err, "Failed to fetch object")
		return
	}
	c.JSON(http.StatusOK, object)
}

// UpdateObject handles full updates; images are optional and replace the
// prior set only when present
// PUT /api/objects/update/:id
func (h *ObjectHandler) UpdateObject(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
		return
	}

	in, err := h.parseObjectForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.objectService.Update(c.Request.Context(), id, in); err != nil {
		respondObjectError(c, err, "Failed to update object")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Object updated"})
}

// DeleteObject removes an object record; deleting an unknown id succeeds
// DELETE /api/objects/delete/:id
func (h *ObjectHandler) DeleteObject(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		// Unparseable ids behave like nonexistent ones under the
		// lenient-delete policy.
		c.JSON(http.StatusOK, gin.H{"message": "Object deleted"})
		return
	}

	if err := h.objectService.Delete(c.Request.Context(), id); err != nil {
		respondObjectError(c, err, "Failed to delete object")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Object deleted"})
}

// parseObjectForm reads the multipart form into the service input shape,
// buffering the uploaded files.
func (h *ObjectHandler) parseObjectForm(c *gin.Context) (services.ObjectInput, error) {
	in := services.ObjectInput{}

	if err := c.Request.ParseMultipartForm(h.maxMemory); err != nil {
		return in, errors.New("invalid multipart form")
	}

	in.Name = c.PostForm("name")
	in.Description = c.PostForm("description")
	in.Location = c.PostForm("location")
	in.CategoryID = c.PostForm("category_id")

	form := c.Request.MultipartForm
	if form == nil {
		return in, nil
	}
	for _, fileHeader := range form.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			return in, errors.New("failed to open uploaded file")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return in, errors.New("failed to read uploaded file")
		}
		in.Images = append(in.Images, services.ImageUpload{
			Filename: fileHeader.Filename,
			Data:     data,
		})
	}

	return in, nil
}

func parseObjectID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// respondObjectError maps the service error taxonomy onto status codes.
// Unrecognized errors are logged and surfaced as an opaque message so
// internal detail never leaks to clients.
func respondObjectError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
	default:
		log.Printf("ERROR: %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
