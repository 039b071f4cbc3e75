package adminclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"sync"
)

// ImageFile is a locally selected image that has not been uploaded yet.
type ImageFile struct {
	Filename string
	Data     []byte
}

// PreviewDataURL renders the file as a data: URL so a preview can be shown
// without contacting the server.
func (f ImageFile) PreviewDataURL() string {
	contentType := mime.TypeByExtension(filepath.Ext(f.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(f.Data))
}

// CreateDraft is the in-progress new-object form. CategoryID stays a raw
// string until submission, like the form field it comes from.
type CreateDraft struct {
	Name          string
	Description   string
	Location      string
	CategoryID    string
	PendingImages []ImageFile
}

// EditDraft is the in-progress edit form. ExistingImages are the server-side
// references already attached to the object; PendingImages are new local
// files. The two are never mixed: submitting with pending images replaces
// the existing set, submitting without leaves it untouched.
type EditDraft struct {
	ID             uint
	Name           string
	Description    string
	Location       string
	CategoryID     string
	ExistingImages []string
	PendingImages  []ImageFile
}

// State holds the admin page's working set: the object and category lists
// plus the create and edit drafts. Every successful mutation triggers a full
// refetch of the object list rather than patching it locally.
type State struct {
	mu         sync.Mutex
	client     *Client
	objects    []Object
	categories []Category
	create     CreateDraft
	edit       *EditDraft
}

func NewState(client *Client) *State {
	return &State{client: client}
}

// Refresh refetches both lists.
func (s *State) Refresh(ctx context.Context) error {
	objects, err := s.client.GetObjects(ctx)
	if err != nil {
		return err
	}
	categories, err := s.client.GetCategories(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.objects = objects
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// Objects returns a copy of the current object list.
func (s *State) Objects() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Object(nil), s.objects...)
}

// Categories returns a copy of the current category list.
func (s *State) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.categories...)
}

// SetCreateFields updates the scalar fields of the create draft.
func (s *State) SetCreateFields(name, description, location, categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create.Name = name
	s.create.Description = description
	s.create.Location = location
	s.create.CategoryID = categoryID
}

// AttachCreateImage adds a selected file to the create draft.
func (s *State) AttachCreateImage(file ImageFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create.PendingImages = append(s.create.PendingImages, file)
}

// CreateDraft returns a copy of the current create draft.
func (s *State) CreateDraft() CreateDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.create
	draft.PendingImages = append([]ImageFile(nil), s.create.PendingImages...)
	return draft
}

// SubmitCreate uploads the create draft. On success the draft is reset and
// the object list refetched.
func (s *State) SubmitCreate(ctx context.Context) error {
	s.mu.Lock()
	draft := s.create
	s.mu.Unlock()

	if err := s.client.CreateObject(ctx, draft); err != nil {
		return err
	}

	s.mu.Lock()
	s.create = CreateDraft{}
	s.mu.Unlock()
	return s.refetchObjects(ctx)
}

// BeginEdit opens an edit draft for an object. Its existing image
// references seed the preview; pending images start empty.
func (s *State) BeginEdit(object Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = &EditDraft{
		ID:             object.ID,
		Name:           object.Name,
		Description:    object.Description,
		Location:       object.Location,
		CategoryID:     fmt.Sprintf("%d", object.CategoryID),
		ExistingImages: append([]string(nil), object.Images...),
	}
}

// SetEditFields updates the scalar fields of the edit draft, if one is open.
func (s *State) SetEditFields(name, description, location, categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return
	}
	s.edit.Name = name
	s.edit.Description = description
	s.edit.Location = location
	s.edit.CategoryID = categoryID
}

// AttachEditImage adds a new local file to the edit draft.
func (s *State) AttachEditImage(file ImageFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return
	}
	s.edit.PendingImages = append(s.edit.PendingImages, file)
}

// EditDraft returns a copy of the open edit draft, or nil.
func (s *State) EditDraft() *EditDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return nil
	}
	draft := *s.edit
	draft.ExistingImages = append([]string(nil), s.edit.ExistingImages...)
	draft.PendingImages = append([]ImageFile(nil), s.edit.PendingImages...)
	return &draft
}

// EditPreviews returns what the edit form should show: the existing server
// references followed by data URLs for the newly attached files.
func (s *State) EditPreviews() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return nil
	}
	previews := append([]string(nil), s.edit.ExistingImages...)
	for _, file := range s.edit.PendingImages {
		previews = append(previews, file.PreviewDataURL())
	}
	return previews
}

// SubmitUpdate uploads the edit draft. On success the draft is closed and
// the object list refetched.
func (s *State) SubmitUpdate(ctx context.Context) error {
	s.mu.Lock()
	if s.edit == nil {
		s.mu.Unlock()
		return fmt.Errorf("no edit in progress")
	}
	draft := *s.edit
	s.mu.Unlock()

	if err := s.client.UpdateObject(ctx, draft); err != nil {
		return err
	}

	s.mu.Lock()
	s.edit = nil
	s.mu.Unlock()
	return s.refetchObjects(ctx)
}

// DeleteObject removes an object and refetches the list.
func (s *State) DeleteObject(ctx context.Context, id uint) error {
	if err := s.client.DeleteObject(ctx, id); err != nil {
		return err
	}
	return s.refetchObjects(ctx)
}

func (s *State) refetchObjects(ctx context.Context) error {
	objects, err := s.client.GetObjects(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects = objects
	s.mu.Unlock()
	return nil
}
