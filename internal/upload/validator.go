// Пакет upload — валидация пакета загружаемых файлов до обращения
// к Media Store. Правила и лимиты идентичны клиентским проверкам
// админки: клиентская валидация лишь ускоряет обратную связь,
// авторитетная сторона — сервер.
package upload

import (
	"fmt"
	"strings"
)

// Лимиты загрузки. Значения должны совпадать с константами админки.
const (
	// MaxImages — максимум изображений в одном запросе.
	MaxImages = 10
	// MaxFileSize — максимальный размер одного файла (4 MiB).
	MaxFileSize = 4 << 20
	// MaxUploadSizePerRequest — суммарный размер файлов одного запроса (6 MiB).
	MaxUploadSizePerRequest = 6 << 20
	// MaxTitleLength — максимальная длина заголовка.
	MaxTitleLength = 200
	// MaxDescriptionLength — максимальная длина описания.
	MaxDescriptionLength = 500
	// MaxCategoryLength — максимальная длина категории.
	MaxCategoryLength = 100
)

// Limits — конфигурация лимитов валидатора.
type Limits struct {
	MaxImages               int
	MaxFileSize             int64
	MaxUploadSizePerRequest int64
	MaxTitleLength          int
	MaxDescriptionLength    int
	MaxCategoryLength       int
}

// DefaultLimits возвращает лимиты по умолчанию.
func DefaultLimits() Limits {
	return Limits{
		MaxImages:               MaxImages,
		MaxFileSize:             MaxFileSize,
		MaxUploadSizePerRequest: MaxUploadSizePerRequest,
		MaxTitleLength:          MaxTitleLength,
		MaxDescriptionLength:    MaxDescriptionLength,
		MaxCategoryLength:       MaxCategoryLength,
	}
}

// Reason — машиночитаемая причина отказа валидатора.
type Reason string

const (
	ReasonTooManyImages Reason = "too_many_images"
	ReasonFileNotImage  Reason = "file_not_image"
	ReasonFileTooLarge  Reason = "file_too_large"
	ReasonBatchTooLarge Reason = "batch_too_large"
	ReasonFieldTooLong  Reason = "field_too_long"
)

// FileInfo — локально доступные сведения о файле: имя, размер,
// заявленный MIME-тип. Содержимое файла валидатору не нужно.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// Fields — текстовые поля формы, длины которых ограничены.
// Пустое значение опционального поля проверку проходит всегда.
type Fields struct {
	Title       string
	Description string
	Category    string
}

// Violation — первое нарушенное правило пакета загрузки.
// Содержит достаточно данных для точного сообщения пользователю:
// имя файла-нарушителя или поля, лимит и фактическое значение.
type Violation struct {
	Reason Reason
	// File — имя файла-нарушителя (file_not_image, file_too_large).
	File string
	// Field — имя поля-нарушителя (field_too_long).
	Field  string
	Limit  int64
	Actual int64
}

// Error реализует error; сообщение пригодно для показа пользователю.
func (v *Violation) Error() string {
	switch v.Reason {
	case ReasonTooManyImages:
		return fmt.Sprintf("допускается не более %d изображений за один запрос (передано %d)", v.Limit, v.Actual)
	case ReasonFileNotImage:
		return fmt.Sprintf("файл %q не является изображением", v.File)
	case ReasonFileTooLarge:
		return fmt.Sprintf("файл %q слишком большой: %d байт при лимите %d байт", v.File, v.Actual, v.Limit)
	case ReasonBatchTooLarge:
		return fmt.Sprintf("суммарный размер загрузки %d байт превышает лимит %d байт на запрос", v.Actual, v.Limit)
	case ReasonFieldTooLong:
		return fmt.Sprintf("поле %q длиннее %d символов (фактически %d)", v.Field, v.Limit, v.Actual)
	default:
		return string(v.Reason)
	}
}

// ValidateBatch проверяет пакет загрузки одного запроса. main — главное
// изображение, если оно загружается этим запросом: лимит количества на
// него не распространяется, остальные правила (тип, размер, суммарный
// объём) действуют наравне с галереей. gallery — добавляемые файлы
// галереи. Функция чистая, без побочных эффектов, безопасна для
// спекулятивных повторных вызовов. Первое нарушение прерывает проверку
// и возвращается как Violation; nil означает «пакет принят».
func ValidateBatch(main *FileInfo, gallery []FileInfo, fields Fields, limits Limits) *Violation {
	if len(gallery) > limits.MaxImages {
		return &Violation{
			Reason: ReasonTooManyImages,
			Limit:  int64(limits.MaxImages),
			Actual: int64(len(gallery)),
		}
	}

	var totalBytes int64
	if main != nil {
		if v := checkFile(*main, limits); v != nil {
			return v
		}
		totalBytes += main.Size
	}
	for _, f := range gallery {
		if v := checkFile(f, limits); v != nil {
			return v
		}
		totalBytes += f.Size
	}

	if totalBytes > limits.MaxUploadSizePerRequest {
		return &Violation{
			Reason: ReasonBatchTooLarge,
			Limit:  limits.MaxUploadSizePerRequest,
			Actual: totalBytes,
		}
	}

	if len(fields.Title) > limits.MaxTitleLength {
		return fieldTooLong("title", len(fields.Title), limits.MaxTitleLength)
	}
	if len(fields.Description) > limits.MaxDescriptionLength {
		return fieldTooLong("description", len(fields.Description), limits.MaxDescriptionLength)
	}
	if len(fields.Category) > limits.MaxCategoryLength {
		return fieldTooLong("category", len(fields.Category), limits.MaxCategoryLength)
	}

	return nil
}

func checkFile(f FileInfo, limits Limits) *Violation {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return &Violation{
			Reason: ReasonFileNotImage,
			File:   f.Name,
		}
	}
	if f.Size > limits.MaxFileSize {
		return &Violation{
			Reason: ReasonFileTooLarge,
			File:   f.Name,
			Limit:  limits.MaxFileSize,
			Actual: f.Size,
		}
	}
	return nil
}

func fieldTooLong(field string, actual, limit int) *Violation {
	return &Violation{
		Reason: ReasonFieldTooLong,
		Field:  field,
		Limit:  int64(limit),
		Actual: int64(actual),
	}
}
