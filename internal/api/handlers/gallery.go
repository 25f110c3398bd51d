// gallery.go — обработчики CRUD фотогалерей.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
	"github.com/aerobickyjov/clubcms/internal/domain/model"
	"github.com/aerobickyjov/clubcms/internal/service"
)

// GalleryProvider — операции над галереями, нужные обработчику.
type GalleryProvider interface {
	Create(ctx context.Context, in service.GalleryCreateInput) (*model.GalleryEntry, error)
	Update(ctx context.Context, id string, in service.GalleryUpdateInput) (*model.GalleryEntry, error)
	Get(ctx context.Context, id string) (*model.GalleryEntry, error)
	List(ctx context.Context) ([]*model.GalleryEntry, error)
	Delete(ctx context.Context, id string) error
}

// GalleryHandler — обработчик маршрутов /api/v1/galleries.
type GalleryHandler struct {
	galleries GalleryProvider
	logger    *slog.Logger
}

// NewGalleryHandler создаёт обработчик галерей.
func NewGalleryHandler(galleries GalleryProvider, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		galleries: galleries,
		logger:    logger.With(slog.String("component", "gallery-handler")),
	}
}

// galleryListResponse — ответ списка галерей.
type galleryListResponse struct {
	Galleries []*model.GalleryEntry `json:"galleries"`
}

// List — GET /api/v1/galleries. Публичный, новые галереи первыми.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.galleries.List(r.Context())
	if err != nil {
		h.logger.Error("ошибка получения списка галерей", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*model.GalleryEntry{}
	}
	writeJSON(w, http.StatusOK, galleryListResponse{Galleries: entries})
}

// GetByID — GET /api/v1/galleries/{id}. Только для администратора.
func (h *GalleryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := h.galleries.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Create — POST /api/v1/galleries. Multipart-форма:
// поля title, description, category, tags (CSV);
// файлы images (минимум один).
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeServiceError(w, err)
		return
	}
	defer cleanupForm(r)

	images, err := openFormFiles(r, "images")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	defer images.close()

	in := service.GalleryCreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		TagsCSV:     r.FormValue("tags"),
		Images:      images.files,
	}

	entry, err := h.galleries.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Update — PUT /api/v1/galleries/{id}. Multipart-форма создания плюс
// existing_images — URL изображений, остающихся в галерее.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := parseMultipart(r); err != nil {
		writeServiceError(w, err)
		return
	}
	defer cleanupForm(r)

	images, err := openFormFiles(r, "images")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	defer images.close()

	in := service.GalleryUpdateInput{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		Category:       r.FormValue("category"),
		TagsCSV:        r.FormValue("tags"),
		ExistingImages: r.MultipartForm.Value["existing_images"],
		NewImages:      images.files,
	}

	entry, err := h.galleries.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Delete — DELETE /api/v1/galleries/{id}.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.galleries.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
