// Package adminclient is the programmatic counterpart of the admin frontend:
// a typed REST client plus the list/draft state it keeps between calls.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Object mirrors the API's read shape.
type Object struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	CategoryID   uint     `json:"category_id"`
	CategoryName *string  `json:"category_name"`
	Images       []string `json:"images"`
	ImageURL     string   `json:"image_url"`
}

// Category mirrors the API's category shape.
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Client talks to the catalog API. The token is only presence-checked by
// the server; it is carried as a plain bearer header.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetObjects fetches the full object list.
func (c *Client) GetObjects(ctx context.Context) ([]Object, error) {
	var objects []Object
	if err := c.getJSON(ctx, "/api/objects/get-all", &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

// GetCategories fetches the category list for the object form.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/api/categories/get-all", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateObject submits a create draft as a multipart form.
func (c *Client) CreateObject(ctx context.Context, draft CreateDraft) error {
	body, contentType, err := encodeObjectForm(draft.Name, draft.Description, draft.Location, draft.CategoryID, draft.PendingImages)
	if err != nil {
		return err
	}
	return c.submit(ctx, http.MethodPost, "/api/objects/create", body, contentType)
}

// UpdateObject submits an edit draft. Pending images, when present, replace
// the object's existing images server-side; an empty pending list leaves
// them untouched.
func (c *Client) UpdateObject(ctx context.Context, draft EditDraft) error {
	body, contentType, err := encodeObjectForm(draft.Name, draft.Description, draft.Location, draft.CategoryID, draft.PendingImages)
	if err != nil {
		return err
	}
	return c.submit(ctx, http.MethodPut, fmt.Sprintf("/api/objects/update/%d", draft.ID), body, contentType)
}

// DeleteObject removes an object by id.
func (c *Client) DeleteObject(ctx context.Context, id uint) error {
	return c.submit(ctx, http.MethodDelete, fmt.Sprintf("/api/objects/delete/%d", id), nil, "")
}

func encodeObjectForm(name, description, location, categoryID string, images []ImageFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"name":        name,
		"description": description,
		"location":    location,
		"category_id": categoryID,
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, "", err
		}
	}

	for _, image := range images {
		part, err := writer.CreateFormFile("images", image.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) submit(ctx context.Context, method, path string, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("api error (%d): %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("api error (%d)", resp.StatusCode)
}
