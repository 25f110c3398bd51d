package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aerobickyjov/clubcms/internal/domain/model"
	"github.com/aerobickyjov/clubcms/internal/mediastore"
	"github.com/aerobickyjov/clubcms/internal/repository"
	"github.com/aerobickyjov/clubcms/internal/upload"
)

// GalleryCreateInput - данные создания фотогалереи.
type GalleryCreateInput struct {
	Title       string
	Description string
	Category    string
	// TagsCSV - теги одной строкой через запятую, как присылает форма.
	TagsCSV string
	Images  []UploadFile
}

// GalleryUpdateInput - данные обновления фотогалереи.
type GalleryUpdateInput struct {
	Title       string
	Description string
	Category    string
	TagsCSV     string
	// ExistingImages - URL изображений, которые остаются в галерее.
	ExistingImages []string
	// NewImages - новые файлы, добавляются после существующих.
	NewImages []UploadFile
}

// GalleryService реализует операции над фотогалереями.
type GalleryService struct {
	repo   repository.GalleryRepository
	media  mediastore.Uploader
	limits upload.Limits
	logger *slog.Logger
}

// NewGalleryService создаёт сервис галерей.
func NewGalleryService(repo repository.GalleryRepository, media mediastore.Uploader, limits upload.Limits, logger *slog.Logger) *GalleryService {
	return &GalleryService{
		repo:   repo,
		media:  media,
		limits: limits,
		logger: logger.With(slog.String("component", "gallery-service")),
	}
}

// Create публикует новую галерею. Галерея без изображений не имеет
// смысла, поэтому минимум один файл обязателен.
func (s *GalleryService) Create(ctx context.Context, in GalleryCreateInput) (*model.GalleryEntry, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title обязателен", ErrValidation)
	}
	if len(in.Images) == 0 {
		return nil, fmt.Errorf("%w: требуется минимум одно изображение", ErrValidation)
	}

	proposed := make([]upload.FileInfo, 0, len(in.Images))
	for _, f := range in.Images {
		proposed = append(proposed, f.Info())
	}
	fields := upload.Fields{Title: in.Title, Description: in.Description, Category: in.Category}
	if v := upload.ValidateBatch(nil, proposed, fields, s.limits); v != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, v.Error())
	}

	urls := make([]string, 0, len(in.Images))
	for _, f := range in.Images {
		url, err := s.uploadOne(ctx, f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	entry := &model.GalleryEntry{
		Title:       in.Title,
		Description: in.Description,
		Images:      urls,
		Category:    in.Category,
		Tags:        parseTags(in.TagsCSV),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("галерея создана",
		slog.String("id", entry.ID.Hex()),
		slog.Int("images", len(urls)))
	return entry, nil
}

// Update изменяет существующую галерею. Итоговый список изображений -
// оставленные клиентом URL плюс новые файлы; пустой итог отклоняется.
func (s *GalleryService) Update(ctx context.Context, id string, in GalleryUpdateInput) (*model.GalleryEntry, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: галерея %s", ErrNotFound, id)
		}
		return nil, err
	}

	if in.Title == "" {
		return nil, fmt.Errorf("%w: title обязателен", ErrValidation)
	}
	if len(in.ExistingImages)+len(in.NewImages) == 0 {
		return nil, fmt.Errorf("%w: галерея не может остаться без изображений", ErrValidation)
	}

	// Лимиты — на запрос: уже сохранённые URL в них не участвуют.
	proposed := make([]upload.FileInfo, 0, len(in.NewImages))
	for _, f := range in.NewImages {
		proposed = append(proposed, f.Info())
	}
	fields := upload.Fields{Title: in.Title, Description: in.Description, Category: in.Category}
	if v := upload.ValidateBatch(nil, proposed, fields, s.limits); v != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, v.Error())
	}

	images := make([]string, 0, len(in.ExistingImages)+len(in.NewImages))
	images = append(images, in.ExistingImages...)
	for _, f := range in.NewImages {
		url, err := s.uploadOne(ctx, f)
		if err != nil {
			return nil, err
		}
		images = append(images, url)
	}

	current.Title = in.Title
	current.Description = in.Description
	current.Category = in.Category
	current.Tags = parseTags(in.TagsCSV)
	current.Images = images

	if err := s.repo.Update(ctx, current); err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: галерея %s", ErrNotFound, id)
		}
		return nil, err
	}

	s.logger.Info("галерея обновлена",
		slog.String("id", id),
		slog.Int("images", len(images)))
	return current, nil
}

// Get возвращает галерею по ID.
func (s *GalleryService) Get(ctx context.Context, id string) (*model.GalleryEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: галерея %s", ErrNotFound, id)
		}
		return nil, err
	}
	return entry, nil
}

// List возвращает все галереи, новые первыми.
func (s *GalleryService) List(ctx context.Context) ([]*model.GalleryEntry, error) {
	return s.repo.List(ctx)
}

// Delete удаляет галерею. Объекты в медиахранилище остаются.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isRepoNotFound(err) {
			return fmt.Errorf("%w: галерея %s", ErrNotFound, id)
		}
		return err
	}
	s.logger.Info("галерея удалена", slog.String("id", id))
	return nil
}

func (s *GalleryService) uploadOne(ctx context.Context, f UploadFile) (string, error) {
	url, err := s.media.Upload(ctx, f.Reader, f.Size, f.ContentType, "galleries")
	if err != nil {
		s.logger.Error("загрузка файла не удалась",
			slog.String("file", f.Name),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: файл %q: %v", ErrUpload, f.Name, err)
	}
	return url, nil
}

// parseTags разбирает строку тегов: запятая - разделитель,
// пробелы обрезаются, пустые элементы отбрасываются.
func parseTags(csv string) []string {
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
