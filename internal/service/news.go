// Package service содержит бизнес-логику CMS: новости, галереи,
// почтовые уведомления.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/aerobickyjov/clubcms/internal/domain/model"
	"github.com/aerobickyjov/clubcms/internal/mediastore"
	"github.com/aerobickyjov/clubcms/internal/repository"
	"github.com/aerobickyjov/clubcms/internal/upload"
)

// slugPattern - допустимый формат slug: латиница/цифры, слова через дефис.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// UploadFile - файл из multipart-запроса, ещё не загруженный в хранилище.
type UploadFile struct {
	Reader      io.Reader
	Name        string
	Size        int64
	ContentType string
}

// Info возвращает метаданные файла для валидатора.
func (f UploadFile) Info() upload.FileInfo {
	return upload.FileInfo{Name: f.Name, Size: f.Size, ContentType: f.ContentType}
}

// MediaSlot описывает судьбу главного изображения при обновлении.
// Нулевое значение - слот не трогали, текущее изображение сохраняется.
type MediaSlot struct {
	mode mediaSlotMode
	url  string
	file *UploadFile
}

type mediaSlotMode int

const (
	slotUnchanged mediaSlotMode = iota
	slotKeep
	slotClear
	slotReplace
)

// KeepImage - клиент явно прислал текущий URL, оставляем его.
func KeepImage(url string) MediaSlot { return MediaSlot{mode: slotKeep, url: url} }

// ClearImage - клиент явно прислал пустое значение, изображение убирается.
func ClearImage() MediaSlot { return MediaSlot{mode: slotClear} }

// ReplaceImage - клиент прислал новый файл.
func ReplaceImage(f UploadFile) MediaSlot { return MediaSlot{mode: slotReplace, file: &f} }

// NewsCreateInput - данные создания новости.
type NewsCreateInput struct {
	Title       string
	Description string
	Content     string
	Slug        string
	PublishDate time.Time
	MainImage   *UploadFile
	Gallery     []UploadFile
}

// NewsUpdateInput - данные обновления новости.
type NewsUpdateInput struct {
	Title       string
	Description string
	Content     string
	Slug        string
	PublishDate time.Time
	MainImage   MediaSlot
	// ExistingGallery - URL уже загруженных изображений, которые остаются.
	ExistingGallery []string
	// NewGallery - новые файлы, добавляются после существующих.
	NewGallery []UploadFile
}

// NewsService реализует операции над новостями.
type NewsService struct {
	repo                repository.NewsRepository
	media               mediastore.Uploader
	limits              upload.Limits
	allowEmptyMainImage bool
	logger              *slog.Logger
}

// NewNewsService создаёт сервис новостей.
func NewNewsService(repo repository.NewsRepository, media mediastore.Uploader, limits upload.Limits, allowEmptyMainImage bool, logger *slog.Logger) *NewsService {
	return &NewsService{
		repo:                repo,
		media:               media,
		limits:              limits,
		allowEmptyMainImage: allowEmptyMainImage,
		logger:              logger.With(slog.String("component", "news-service")),
	}
}

// Create публикует новую статью. Сначала проверяются поля и slug,
// затем грузятся файлы, и только потом документ попадает в базу,
// чтобы отказ валидации не оставлял осиротевших объектов в хранилище.
func (s *NewsService) Create(ctx context.Context, in NewsCreateInput) (*model.NewsArticle, error) {
	if in.Title == "" || in.Content == "" || in.Slug == "" || in.PublishDate.IsZero() {
		return nil, fmt.Errorf("%w: title, content, slug и publish_date обязательны", ErrValidation)
	}
	if in.MainImage == nil {
		return nil, fmt.Errorf("%w: главное изображение обязательно", ErrValidation)
	}
	if !slugPattern.MatchString(in.Slug) {
		return nil, fmt.Errorf("%w: slug %q не соответствует формату", ErrValidation, in.Slug)
	}

	mainInfo := in.MainImage.Info()
	gallery := make([]upload.FileInfo, 0, len(in.Gallery))
	for _, f := range in.Gallery {
		gallery = append(gallery, f.Info())
	}
	fields := upload.Fields{Title: in.Title, Description: in.Description}
	if v := upload.ValidateBatch(&mainInfo, gallery, fields, s.limits); v != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, v.Error())
	}

	// Проверка slug до загрузки файлов - экономим трафик в хранилище.
	// Уникальный индекс остаётся последней линией защиты от гонок.
	taken, err := s.repo.ExistsBySlug(ctx, in.Slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug %q уже занят", ErrConflict, in.Slug)
	}

	mainURL, err := s.uploadOne(ctx, *in.MainImage, "news")
	if err != nil {
		return nil, err
	}
	galleryURLs := make([]string, 0, len(in.Gallery))
	for _, f := range in.Gallery {
		url, err := s.uploadOne(ctx, f, "news")
		if err != nil {
			return nil, err
		}
		galleryURLs = append(galleryURLs, url)
	}

	article := &model.NewsArticle{
		Title:        in.Title,
		Description:  in.Description,
		Content:      in.Content,
		MainImage:    mainURL,
		PhotoGallery: galleryURLs,
		Slug:         in.Slug,
		PublishDate:  in.PublishDate.UTC(),
	}
	if err := s.repo.Create(ctx, article); err != nil {
		if isRepoConflict(err) {
			return nil, fmt.Errorf("%w: slug %q уже занят", ErrConflict, in.Slug)
		}
		return nil, err
	}

	s.logger.Info("новость создана",
		slog.String("id", article.ID.Hex()),
		slog.String("slug", article.Slug),
		slog.Int("gallery_size", len(galleryURLs)))
	return article, nil
}

// Update изменяет существующую статью. Итоговая фотогалерея -
// оставленные клиентом URL плюс новые файлы в порядке загрузки.
func (s *NewsService) Update(ctx context.Context, id string, in NewsUpdateInput) (*model.NewsArticle, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: новость %s", ErrNotFound, id)
		}
		return nil, err
	}

	if in.Title == "" || in.Content == "" || in.Slug == "" || in.PublishDate.IsZero() {
		return nil, fmt.Errorf("%w: title, content, slug и publish_date обязательны", ErrValidation)
	}
	if !slugPattern.MatchString(in.Slug) {
		return nil, fmt.Errorf("%w: slug %q не соответствует формату", ErrValidation, in.Slug)
	}

	// Лимиты — на запрос: уже сохранённые URL в них не участвуют,
	// проверяются только свежие файлы.
	var mainInfo *upload.FileInfo
	if in.MainImage.mode == slotReplace {
		info := in.MainImage.file.Info()
		mainInfo = &info
	}
	gallery := make([]upload.FileInfo, 0, len(in.NewGallery))
	for _, f := range in.NewGallery {
		gallery = append(gallery, f.Info())
	}
	fields := upload.Fields{Title: in.Title, Description: in.Description}
	if v := upload.ValidateBatch(mainInfo, gallery, fields, s.limits); v != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, v.Error())
	}

	taken, err := s.repo.ExistsBySlug(ctx, in.Slug, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug %q уже занят", ErrConflict, in.Slug)
	}

	mainImage := current.MainImage
	switch in.MainImage.mode {
	case slotReplace:
		url, err := s.uploadOne(ctx, *in.MainImage.file, "news")
		if err != nil {
			return nil, err
		}
		mainImage = url
	case slotKeep:
		mainImage = in.MainImage.url
	case slotClear:
		if !s.allowEmptyMainImage {
			return nil, fmt.Errorf("%w: главное изображение обязательно", ErrValidation)
		}
		mainImage = ""
	}

	galleryURLs := make([]string, 0, len(in.ExistingGallery)+len(in.NewGallery))
	galleryURLs = append(galleryURLs, in.ExistingGallery...)
	for _, f := range in.NewGallery {
		url, err := s.uploadOne(ctx, f, "news")
		if err != nil {
			return nil, err
		}
		galleryURLs = append(galleryURLs, url)
	}

	current.Title = in.Title
	current.Description = in.Description
	current.Content = in.Content
	current.Slug = in.Slug
	current.PublishDate = in.PublishDate.UTC()
	current.MainImage = mainImage
	current.PhotoGallery = galleryURLs

	if err := s.repo.Update(ctx, current); err != nil {
		if isRepoConflict(err) {
			return nil, fmt.Errorf("%w: slug %q уже занят", ErrConflict, in.Slug)
		}
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: новость %s", ErrNotFound, id)
		}
		return nil, err
	}

	s.logger.Info("новость обновлена",
		slog.String("id", id),
		slog.String("slug", current.Slug))
	return current, nil
}

// Get возвращает статью по ID.
func (s *NewsService) Get(ctx context.Context, id string) (*model.NewsArticle, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: новость %s", ErrNotFound, id)
		}
		return nil, err
	}
	return article, nil
}

// GetBySlug возвращает статью по slug.
func (s *NewsService) GetBySlug(ctx context.Context, slug string) (*model.NewsArticle, error) {
	article, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: новость %q", ErrNotFound, slug)
		}
		return nil, err
	}
	return article, nil
}

// List возвращает все статьи, новые первыми.
func (s *NewsService) List(ctx context.Context) ([]*model.NewsArticle, error) {
	return s.repo.List(ctx)
}

// Delete удаляет статью. Объекты в медиахранилище не трогаем:
// URL могли попасть в чужие документы или внешние ссылки.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isRepoNotFound(err) {
			return fmt.Errorf("%w: новость %s", ErrNotFound, id)
		}
		return err
	}
	s.logger.Info("новость удалена", slog.String("id", id))
	return nil
}

func (s *NewsService) uploadOne(ctx context.Context, f UploadFile, folder string) (string, error) {
	url, err := s.media.Upload(ctx, f.Reader, f.Size, f.ContentType, folder)
	if err != nil {
		s.logger.Error("загрузка файла не удалась",
			slog.String("file", f.Name),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: файл %q: %v", ErrUpload, f.Name, err)
	}
	return url, nil
}
