// news.go — обработчики CRUD новостей.
// Create и Update принимают multipart/form-data: текстовые поля
// документа плюс файлы изображений, загружаемые в медиахранилище.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
	"github.com/aerobickyjov/clubcms/internal/domain/model"
	"github.com/aerobickyjov/clubcms/internal/service"
)

// multipartMemory — объём памяти для разбора multipart-формы,
// остальное уходит во временные файлы.
const multipartMemory = 8 << 20

// NewsProvider — операции над новостями, нужные обработчику.
type NewsProvider interface {
	Create(ctx context.Context, in service.NewsCreateInput) (*model.NewsArticle, error)
	Update(ctx context.Context, id string, in service.NewsUpdateInput) (*model.NewsArticle, error)
	Get(ctx context.Context, id string) (*model.NewsArticle, error)
	GetBySlug(ctx context.Context, slug string) (*model.NewsArticle, error)
	List(ctx context.Context) ([]*model.NewsArticle, error)
	Delete(ctx context.Context, id string) error
}

// NewsHandler — обработчик маршрутов /api/v1/news.
type NewsHandler struct {
	news   NewsProvider
	logger *slog.Logger
}

// NewNewsHandler создаёт обработчик новостей.
func NewNewsHandler(news NewsProvider, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		news:   news,
		logger: logger.With(slog.String("component", "news-handler")),
	}
}

// newsListResponse — ответ списка новостей.
type newsListResponse struct {
	NewsArticles []*model.NewsArticle `json:"newsArticles"`
}

// List — GET /api/v1/news. Публичный, новые статьи первыми.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.news.List(r.Context())
	if err != nil {
		h.logger.Error("ошибка получения списка новостей", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}
	if articles == nil {
		articles = []*model.NewsArticle{}
	}
	writeJSON(w, http.StatusOK, newsListResponse{NewsArticles: articles})
}

// GetBySlug — GET /api/v1/news/slug/{slug}. Публичный.
func (h *NewsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	article, err := h.news.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// GetByID — GET /api/v1/news/{id}. Только для администратора.
func (h *NewsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	article, err := h.news.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Create — POST /api/v1/news. Multipart-форма:
// поля title, description, content, slug, publish_date;
// файлы main_image (один) и photo_gallery (несколько).
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeServiceError(w, err)
		return
	}
	defer cleanupForm(r)

	publishDate, err := parsePublishDate(r.FormValue("publish_date"))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	in := service.NewsCreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Content:     r.FormValue("content"),
		Slug:        r.FormValue("slug"),
		PublishDate: publishDate,
	}

	mainImage, err := openFormFile(r, "main_image")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if mainImage != nil {
		defer mainImage.close()
		in.MainImage = &mainImage.file
	}

	gallery, err := openFormFiles(r, "photo_gallery")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	defer gallery.close()
	in.Gallery = gallery.files

	article, err := h.news.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

// Update — PUT /api/v1/news/{id}. Multipart-форма создания плюс:
// existing_main_image — оставить текущий URL (пустое значение очищает
// изображение, отсутствие поля оставляет как есть), если не прислан
// новый файл main_image; existing_photo_gallery — URL изображений,
// остающихся в галерее.
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := parseMultipart(r); err != nil {
		writeServiceError(w, err)
		return
	}
	defer cleanupForm(r)

	publishDate, err := parsePublishDate(r.FormValue("publish_date"))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	in := service.NewsUpdateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Content:     r.FormValue("content"),
		Slug:        r.FormValue("slug"),
		PublishDate: publishDate,
	}

	mainImage, err := openFormFile(r, "main_image")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	switch {
	case mainImage != nil:
		defer mainImage.close()
		in.MainImage = service.ReplaceImage(mainImage.file)
	default:
		// Нет нового файла: смотрим на existing_main_image.
		if values, ok := r.MultipartForm.Value["existing_main_image"]; ok {
			if len(values) > 0 && values[0] != "" {
				in.MainImage = service.KeepImage(values[0])
			} else {
				in.MainImage = service.ClearImage()
			}
		}
	}

	in.ExistingGallery = r.MultipartForm.Value["existing_photo_gallery"]

	gallery, err := openFormFiles(r, "photo_gallery")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	defer gallery.close()
	in.NewGallery = gallery.files

	article, err := h.news.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Delete — DELETE /api/v1/news/{id}.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.news.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Вспомогательные функции разбора multipart ---

// parsePublishDate разбирает дату публикации: сначала формат
// "2006-01-02" (как присылает форма), затем RFC3339.
func parsePublishDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("некорректная дата публикации %q", value)
}

// formFile — открытый файл формы с функцией освобождения.
type formFile struct {
	file  service.UploadFile
	close func()
}

// formFiles — набор открытых файлов одной части формы.
type formFiles struct {
	files   []service.UploadFile
	closers []func()
}

func (f *formFiles) close() {
	for _, c := range f.closers {
		c()
	}
}

// openFormFile открывает единственный файл части name.
// Возвращает nil, nil если файл не прислан.
func openFormFile(r *http.Request, name string) (*formFile, error) {
	headers := r.MultipartForm.File[name]
	if len(headers) == 0 {
		return nil, nil
	}
	file, err := openHeader(headers[0])
	if err != nil {
		return nil, err
	}
	return file, nil
}

// openFormFiles открывает все файлы части name, сохраняя порядок формы.
func openFormFiles(r *http.Request, name string) (*formFiles, error) {
	result := &formFiles{}
	for _, header := range r.MultipartForm.File[name] {
		file, err := openHeader(header)
		if err != nil {
			result.close()
			return nil, err
		}
		result.files = append(result.files, file.file)
		result.closers = append(result.closers, file.close)
	}
	return result, nil
}

func openHeader(header *multipart.FileHeader) (*formFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %q", header.Filename)
	}
	return &formFile{
		file: service.UploadFile{
			Reader:      f,
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		},
		close: func() { _ = f.Close() },
	}, nil
}

// cleanupForm удаляет временные файлы разобранной multipart-формы.
func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
