package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"campusbarter/apperr"
	"campusbarter/metrics"
	"campusbarter/objects"
)

// maxUploadSize caps item image uploads at 10 MB
const maxUploadSize = 10 << 20

type itemResponse struct {
	ID          string    `json:"item_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func itemView(item *objects.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Status:      item.Status,
		ImageURL:    item.ImageURL,
		CreatedAt:   item.CreatedAt,
	}
}

func itemViews(items []*objects.Item) []itemResponse {
	views := make([]itemResponse, 0, len(items))
	for _, item := range items {
		views = append(views, itemView(item))
	}
	return views
}

// handleCreateItem lists a new item. Multipart form: title, description,
// category, and an optional image file.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, user *objects.User) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.InvalidInput, "invalid multipart form", err))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		s.writeError(w, r, apperr.E(apperr.InvalidInput, "title is required"))
		return
	}
	category := r.FormValue("category")
	if err := objects.ValidateCategory(category); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.InvalidInput, "invalid category", err))
		return
	}

	imageURL, err := s.storeUploadedImage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	item := objects.NewItem(user.ID, title, r.FormValue("description"), category, imageURL)
	if err := s.ctx.Repo.SaveItem(item); err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.RecordListing(item.Category)
	writeJSON(w, http.StatusCreated, itemView(item))
}

// storeUploadedImage uploads the "image" form file, if present. A listing
// without an image is fine; the item just has no cover.
func (s *Server) storeUploadedImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "invalid image upload", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "failed to read image upload", err)
	}

	contentType := header.Header.Get("Content-Type")
	return s.ctx.Storage.Store(r.Context(), content, header.Filename, contentType)
}

// handleSearchItems searches available items by keyword and category
func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	category := r.URL.Query().Get("category")

	if category != "" {
		if err := objects.ValidateCategory(category); err != nil {
			s.writeError(w, r, apperr.Wrap(apperr.InvalidInput, "invalid category", err))
			return
		}
	}

	items, err := s.ctx.Repo.SearchItems(keyword, category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.RecordSearch(keyword != "", category != "")
	writeJSON(w, http.StatusOK, itemViews(items))
}

// handleMyItems lists the caller's own items, whatever their status
func (s *Server) handleMyItems(w http.ResponseWriter, r *http.Request, user *objects.User) {
	items, err := s.ctx.Repo.FindItemsByOwner(user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemViews(items))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.ctx.Repo.GetItem(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if item == nil {
		s.writeError(w, r, apperr.E(apperr.NotFound, "item not found"))
		return
	}
	writeJSON(w, http.StatusOK, itemView(item))
}
