package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aerobickyjov/clubcms/internal/domain/model"
	"github.com/aerobickyjov/clubcms/internal/mailer"
	"github.com/aerobickyjov/clubcms/internal/repository"
)

// fakeNewsRepo - репозиторий новостей в памяти.
type fakeNewsRepo struct {
	items []*model.NewsArticle
}

func (r *fakeNewsRepo) Create(_ context.Context, a *model.NewsArticle) error {
	for _, it := range r.items {
		if it.Slug == a.Slug {
			return repository.ErrConflict
		}
	}
	a.ID = primitive.NewObjectID()
	cp := *a
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeNewsRepo) GetByID(_ context.Context, id string) (*model.NewsArticle, error) {
	for _, it := range r.items {
		if it.ID.Hex() == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNewsRepo) GetBySlug(_ context.Context, slug string) (*model.NewsArticle, error) {
	for _, it := range r.items {
		if it.Slug == slug {
			cp := *it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNewsRepo) ExistsBySlug(_ context.Context, slug, excludeID string) (bool, error) {
	for _, it := range r.items {
		if it.Slug == slug && it.ID.Hex() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNewsRepo) List(_ context.Context) ([]*model.NewsArticle, error) {
	// Новые первыми, как сортирует настоящий репозиторий.
	result := make([]*model.NewsArticle, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		cp := *r.items[i]
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fakeNewsRepo) Update(_ context.Context, a *model.NewsArticle) error {
	for _, it := range r.items {
		if it.Slug == a.Slug && it.ID != a.ID {
			return repository.ErrConflict
		}
	}
	for i, it := range r.items {
		if it.ID == a.ID {
			cp := *a
			r.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNewsRepo) Delete(_ context.Context, id string) error {
	for i, it := range r.items {
		if it.ID.Hex() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeGalleryRepo - репозиторий галерей в памяти.
type fakeGalleryRepo struct {
	items []*model.GalleryEntry
}

func (r *fakeGalleryRepo) Create(_ context.Context, e *model.GalleryEntry) error {
	e.ID = primitive.NewObjectID()
	cp := *e
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeGalleryRepo) GetByID(_ context.Context, id string) (*model.GalleryEntry, error) {
	for _, it := range r.items {
		if it.ID.Hex() == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeGalleryRepo) List(_ context.Context) ([]*model.GalleryEntry, error) {
	result := make([]*model.GalleryEntry, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		cp := *r.items[i]
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fakeGalleryRepo) Update(_ context.Context, e *model.GalleryEntry) error {
	for i, it := range r.items {
		if it.ID == e.ID {
			cp := *e
			r.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeGalleryRepo) Delete(_ context.Context, id string) error {
	for i, it := range r.items {
		if it.ID.Hex() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeMedia - реализация mediastore.Uploader в памяти. Содержимое
// ридера служит именем объекта, что даёт детерминированные URL.
type fakeMedia struct {
	calls []string
	fail  bool
}

var errMediaDown = errors.New("хранилище недоступно")

func (m *fakeMedia) Upload(_ context.Context, r io.Reader, _ int64, _, _ string) (string, error) {
	if m.fail {
		return "", errMediaDown
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.calls = append(m.calls, string(data))
	return urlOf(string(data)), nil
}

// fakeSender собирает отправленные письма.
type fakeSender struct {
	sent []mailer.Message
	fail bool
}

func (s *fakeSender) Send(msg mailer.Message) error {
	if s.fail {
		return errMediaDown
	}
	s.sent = append(s.sent, msg)
	return nil
}

func urlOf(name string) string {
	return fmt.Sprintf("https://media.example.com/club-media/%s", name)
}
