package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/wisata/backend/internal/models"
	"github.com/wisata/backend/internal/repository"
	"github.com/wisata/backend/internal/services"
	"github.com/wisata/backend/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerFixture struct {
	router    *gin.Engine
	db        *gorm.DB
	uploadDir string
	category  *models.Category
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	category := &models.Category{Name: "Nature"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	objectService := services.NewObjectService(
		repository.NewObjectRepository(db),
		repository.NewCategoryRepository(db),
		store,
		5,
	)
	handler := NewObjectHandler(objectService, 32<<20)

	router := gin.New()
	router.POST("/api/objects/create", handler.CreateObject)
	router.GET("/api/objects/get-all", handler.GetAllObjects)
	router.GET("/api/objects/get-by-id/:id", handler.GetObjectByID)
	router.PUT("/api/objects/update/:id", handler.UpdateObject)
	router.DELETE("/api/objects/delete/:id", handler.DeleteObject)

	return &handlerFixture{router: router, db: db, uploadDir: uploadDir, category: category}
}

type testFile struct {
	field    string
	filename string
	data     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []testFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("Write file part failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close writer failed: %v", err)
	}
	return body, writer.FormDataContentType()
}

func (f *handlerFixture) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) validFields() map[string]string {
	return map[string]string{
		"name":        "Lake View",
		"description": "Scenic lake",
		"location":    "Hillside",
		"category_id": fmt.Sprintf("%d", f.category.ID),
	}
}

func (f *handlerFixture) createObject(t *testing.T, files ...testFile) uint {
	t.Helper()
	body, contentType := multipartBody(t, f.validFields(), files)
	w := f.do(t, http.MethodPost, "/api/objects/create", body, contentType)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode create response: %v", err)
	}
	return resp.ID
}

func (f *handlerFixture) getObject(t *testing.T, id uint) models.ObjectView {
	t.Helper()
	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/objects/get-by-id/%d", id), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GetByID returned %d: %s", w.Code, w.Body.String())
	}
	var view models.ObjectView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode object: %v", err)
	}
	return view
}

func TestCreateObjectEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	id := f.createObject(t, testFile{"images", "photo.png", []byte("png bytes")})

	view := f.getObject(t, id)
	if view.Name != "Lake View" || view.Location != "Hillside" {
		t.Errorf("Unexpected object: %+v", view)
	}
	if view.CategoryName == nil || *view.CategoryName != "Nature" {
		t.Errorf("CategoryName = %v, want Nature", view.CategoryName)
	}
	if len(view.Images) != 1 || !strings.HasPrefix(view.Images[0], "/uploads/") {
		t.Errorf("Images = %v, want one /uploads/ reference", view.Images)
	}
	if !strings.HasSuffix(view.Images[0], ".png") {
		t.Errorf("Image ref = %q, want original extension kept", view.Images[0])
	}
	if view.ImageURL != view.Images[0] {
		t.Errorf("ImageURL = %q, want first image", view.ImageURL)
	}
}

func TestCreateObjectMissingFields(t *testing.T) {
	f := newHandlerFixture(t)

	for _, field := range []string{"name", "description", "location", "category_id"} {
		fields := f.validFields()
		delete(fields, field)

		body, contentType := multipartBody(t, fields, nil)
		w := f.do(t, http.MethodPost, "/api/objects/create", body, contentType)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Create without %s returned %d, want 400", field, w.Code)
		}
	}

	w := f.do(t, http.MethodGet, "/api/objects/get-all", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GetAll returned %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("GetAll after failed creates = %s, want []", body)
	}
}

func TestCreateObjectRejectsUnsupportedFileType(t *testing.T) {
	f := newHandlerFixture(t)

	body, contentType := multipartBody(t, f.validFields(), []testFile{{"images", "doc.pdf", []byte("pdf")}})
	w := f.do(t, http.MethodPost, "/api/objects/create", body, contentType)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Create with pdf returned %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "file type not supported") {
		t.Errorf("Error body = %s, want store message surfaced", w.Body.String())
	}

	entries, err := os.ReadDir(f.uploadDir)
	if err != nil {
		t.Fatalf("Failed to read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Error("Rejected upload left files on disk")
	}
}

func TestGetObjectByIDNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	for _, path := range []string{"/api/objects/get-by-id/9999", "/api/objects/get-by-id/not-a-number"} {
		w := f.do(t, http.MethodGet, path, nil, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s returned %d, want 404", path, w.Code)
		}
	}
}

func TestUpdateObjectKeepsImagesWithoutUpload(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createObject(t, testFile{"images", "photo.png", []byte("png bytes")})
	before := f.getObject(t, id)

	fields := f.validFields()
	fields["name"] = "Lake View Renamed"
	body, contentType := multipartBody(t, fields, nil)
	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/objects/update/%d", id), body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("Update returned %d: %s", w.Code, w.Body.String())
	}

	after := f.getObject(t, id)
	if after.Name != "Lake View Renamed" {
		t.Errorf("Name = %q, want updated", after.Name)
	}
	if len(after.Images) != 1 || after.Images[0] != before.Images[0] {
		t.Errorf("Images changed: %v -> %v", before.Images, after.Images)
	}
}

func TestUpdateObjectReplacesImages(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createObject(t, testFile{"images", "old.png", []byte("old")})
	before := f.getObject(t, id)

	body, contentType := multipartBody(t, f.validFields(), []testFile{
		{"images", "new1.jpg", []byte("new1")},
		{"images", "new2.gif", []byte("new2")},
	})
	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/objects/update/%d", id), body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("Update returned %d: %s", w.Code, w.Body.String())
	}

	after := f.getObject(t, id)
	if len(after.Images) != 2 {
		t.Fatalf("Images length = %d, want 2", len(after.Images))
	}
	for _, ref := range after.Images {
		if ref == before.Images[0] {
			t.Error("Old image reference survived a replacing update")
		}
	}
}

func TestUpdateObjectNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	body, contentType := multipartBody(t, f.validFields(), nil)
	w := f.do(t, http.MethodPut, "/api/objects/update/9999", body, contentType)
	if w.Code != http.StatusNotFound {
		t.Errorf("Update of unknown id returned %d, want 404", w.Code)
	}
}

func TestDeleteObjectIsIdempotent(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createObject(t)

	for i := 0; i < 2; i++ {
		w := f.do(t, http.MethodDelete, fmt.Sprintf("/api/objects/delete/%d", id), nil, "")
		if w.Code != http.StatusOK {
			t.Errorf("Delete attempt %d returned %d, want 200", i+1, w.Code)
		}
	}

	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/objects/get-by-id/%d", id), nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GetByID after delete returned %d, want 404", w.Code)
	}
}
