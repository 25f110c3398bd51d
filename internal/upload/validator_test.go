package upload

import (
	"strings"
	"testing"
)

// jpeg возвращает FileInfo изображения заданного размера.
func jpeg(name string, size int64) FileInfo {
	return FileInfo{Name: name, Size: size, ContentType: "image/jpeg"}
}

func ptr(f FileInfo) *FileInfo { return &f }

// files генерирует n изображений по size байт каждое.
func files(n int, size int64) []FileInfo {
	result := make([]FileInfo, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, jpeg("photo.jpg", size))
	}
	return result
}

// TestValidateBatch_AcceptsAtBoundaries проверяет, что пакет принимается
// ровно на границе каждого лимита.
func TestValidateBatch_AcceptsAtBoundaries(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name    string
		main    *FileInfo
		gallery []FileInfo
		fields  Fields
	}{
		{
			name:    "ровно MaxImages файлов в галерее",
			gallery: files(MaxImages, 1024),
		},
		{
			name:    "главное изображение не входит в лимит количества",
			main:    ptr(jpeg("main.jpg", 1024)),
			gallery: files(MaxImages, 1024),
		},
		{
			name:    "файл ровно MaxFileSize",
			gallery: []FileInfo{jpeg("big.jpg", MaxFileSize)},
		},
		{
			name:    "суммарно ровно MaxUploadSizePerRequest",
			gallery: []FileInfo{jpeg("a.jpg", 3<<20), jpeg("b.jpg", 3<<20)},
		},
		{
			name:   "title ровно MaxTitleLength",
			fields: Fields{Title: strings.Repeat("a", MaxTitleLength)},
		},
		{
			name: "description и category ровно на лимите",
			fields: Fields{
				Description: strings.Repeat("b", MaxDescriptionLength),
				Category:    strings.Repeat("c", MaxCategoryLength),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := ValidateBatch(tt.main, tt.gallery, tt.fields, limits); v != nil {
				t.Errorf("пакет отклонён на границе лимита: %v", v)
			}
		})
	}
}

// TestValidateBatch_RejectsOnePastBoundary проверяет, что каждое правило
// срабатывает независимо при превышении лимита на единицу.
func TestValidateBatch_RejectsOnePastBoundary(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name    string
		main    *FileInfo
		gallery []FileInfo
		fields  Fields
		reason  Reason
	}{
		{
			name:    "MaxImages+1 файлов в галерее",
			gallery: files(MaxImages+1, 1024),
			reason:  ReasonTooManyImages,
		},
		{
			name:    "не изображение",
			gallery: []FileInfo{{Name: "doc.pdf", Size: 1024, ContentType: "application/pdf"}},
			reason:  ReasonFileNotImage,
		},
		{
			name:   "главное изображение не изображение",
			main:   &FileInfo{Name: "doc.pdf", Size: 1024, ContentType: "application/pdf"},
			reason: ReasonFileNotImage,
		},
		{
			name:    "файл MaxFileSize+1",
			gallery: []FileInfo{jpeg("big.jpg", MaxFileSize+1)},
			reason:  ReasonFileTooLarge,
		},
		{
			name:   "главное изображение MaxFileSize+1",
			main:   ptr(jpeg("main.jpg", MaxFileSize+1)),
			reason: ReasonFileTooLarge,
		},
		{
			name:    "суммарный размер MaxUploadSizePerRequest+1",
			gallery: []FileInfo{jpeg("a.jpg", 3<<20), jpeg("b.jpg", (3<<20)+1)},
			reason:  ReasonBatchTooLarge,
		},
		{
			name:    "главное изображение входит в суммарный размер",
			main:    ptr(jpeg("main.jpg", 3<<20)),
			gallery: []FileInfo{jpeg("a.jpg", (3<<20)+1)},
			reason:  ReasonBatchTooLarge,
		},
		{
			name:   "title длиннее лимита",
			fields: Fields{Title: strings.Repeat("a", MaxTitleLength+1)},
			reason: ReasonFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateBatch(tt.main, tt.gallery, tt.fields, limits)
			if v == nil {
				t.Fatal("пакет принят, ожидался отказ")
			}
			if v.Reason != tt.reason {
				t.Errorf("Reason = %q, ожидается %q", v.Reason, tt.reason)
			}
		})
	}
}

// TestValidateBatch_ViolationDetails проверяет, что отказ несёт данные
// для точного пользовательского сообщения.
func TestValidateBatch_ViolationDetails(t *testing.T) {
	limits := DefaultLimits()

	v := ValidateBatch(nil, []FileInfo{jpeg("spring-camp.jpg", 5<<20)}, Fields{}, limits)
	if v == nil {
		t.Fatal("файл 5 MiB принят, ожидался отказ")
	}
	if v.Reason != ReasonFileTooLarge {
		t.Fatalf("Reason = %q, ожидается %q", v.Reason, ReasonFileTooLarge)
	}
	if v.File != "spring-camp.jpg" {
		t.Errorf("File = %q, ожидается spring-camp.jpg", v.File)
	}
	if v.Limit != MaxFileSize {
		t.Errorf("Limit = %d, ожидается %d", v.Limit, int64(MaxFileSize))
	}
	if v.Actual != 5<<20 {
		t.Errorf("Actual = %d, ожидается %d", v.Actual, int64(5<<20))
	}
	if !strings.Contains(v.Error(), "spring-camp.jpg") {
		t.Errorf("сообщение не называет файл: %q", v.Error())
	}
}

// TestValidateBatch_FirstViolationWins проверяет short-circuit:
// при нескольких нарушениях возвращается первое по порядку правил.
func TestValidateBatch_FirstViolationWins(t *testing.T) {
	limits := DefaultLimits()

	// 11 файлов, среди которых есть и не-изображение: количество проверяется первым.
	proposed := append(files(10, 1024), FileInfo{Name: "doc.pdf", Size: 1024, ContentType: "application/pdf"})
	v := ValidateBatch(nil, proposed, Fields{}, limits)
	if v == nil {
		t.Fatal("пакет принят, ожидался отказ")
	}
	if v.Reason != ReasonTooManyImages {
		t.Errorf("Reason = %q, ожидается %q", v.Reason, ReasonTooManyImages)
	}
}
