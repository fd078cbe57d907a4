package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagekeep/pagekeep/internal/model"
	"github.com/pagekeep/pagekeep/internal/service"
	"github.com/pagekeep/pagekeep/internal/storage"
)

// PublicationHandler holds the HTTP handlers for publication announcements.
type PublicationHandler struct {
	svc    *service.PublicationService
	images storage.ImageStore
}

// NewPublicationHandler constructs a PublicationHandler.
func NewPublicationHandler(svc *service.PublicationService, images storage.ImageStore) *PublicationHandler {
	return &PublicationHandler{svc: svc, images: images}
}

// Routes mounts the publication endpoints.
func (h *PublicationHandler) Routes(r chi.Router) {
	r.Post("/add", h.Publish)
	r.Get("/", h.AllPublications)
	r.Delete("/{id}", h.DeletePublication)
}

// Publish handles POST /publication/add
// Accepts a multipart form carrying the announcement fields and an
// optional cover image upload.
func (h *PublicationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodePublicationForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pub, err := h.svc.Publish(r.Context(), *req)
	if err != nil {
		writeDomainError(w, r, err, "publication not found")
		return
	}
	writeJSON(w, http.StatusCreated, pub)
}

// AllPublications handles GET /publication
func (h *PublicationHandler) AllPublications(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.svc.AllPublications(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if pubs == nil {
		pubs = []model.Publication{}
	}
	writeJSON(w, http.StatusOK, pubs)
}

// DeletePublication handles DELETE /publication/{id}
func (h *PublicationHandler) DeletePublication(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePublication(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err, "publication not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "publication deleted"})
}

func (h *PublicationHandler) decodePublicationForm(r *http.Request) (*model.PublicationRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	req := &model.PublicationRequest{
		BookName:    r.FormValue("bookName"),
		AuthorName:  r.FormValue("authorName"),
		ISBNNumber:  r.FormValue("isbnNumber"),
		Description: r.FormValue("description"),
	}

	if v := r.FormValue("publishedDate"); v != "" {
		date, err := model.ParseDate(v)
		if err != nil {
			return nil, err
		}
		req.PublishedDate = date
	}

	file, header, err := r.FormFile("bookImage")
	if err == nil {
		defer file.Close()
		url, saveErr := h.images.SaveImage(header.Filename, file)
		if saveErr != nil {
			return nil, saveErr
		}
		req.BookImage = url
	} else if err != http.ErrMissingFile {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	return req, nil
}
