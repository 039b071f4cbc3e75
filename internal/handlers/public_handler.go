package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisata/backend/internal/models"
	"github.com/wisata/backend/internal/services"
)

// PublicHandler serves the read-only public detail view, with optional
// on-the-fly translation of the human-readable fields.
type PublicHandler struct {
	objectService      *services.ObjectService
	translationService *services.TranslationService
}

func NewPublicHandler(objectService *services.ObjectService, translationService *services.TranslationService) *PublicHandler {
	return &PublicHandler{
		objectService:      objectService,
		translationService: translationService,
	}
}

// GetAllObjects lists objects for the public catalog page
// GET /api/public/objects/get-all
func (h *PublicHandler) GetAllObjects(c *gin.Context) {
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

// GetObjectByID returns one object, translated when lang is given.
// Translation is best-effort; on failure the original text is served.
// GET /api/public/objects/get-by-id/:id?lang=en
func (h *PublicHandler) GetObjectByID(c *gin.Context) {
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

	if lang := c.Query("lang"); lang != "" {
		h.translationService.TranslateView(c.Request.Context(), object, lang)
	}

	c.JSON(http.StatusOK, object)
}
