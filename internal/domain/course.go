package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaterialTitle подставляется в уведомление, когда у материала
// нет собственного названия.
const DefaultMaterialTitle = "материал"

// Course представляет собой курс
type Course struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lesson представляет собой урок, принадлежащий ровно одному курсу
type Lesson struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	CourseID    uuid.UUID `json:"course_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
}

// CourseCreateRequest представляет запрос на создание курса
type CourseCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	PreviewURL  string `json:"preview_url"`
}

// CourseUpdateRequest представляет запрос на обновление курса.
// Поля-указатели позволяют частичное обновление (PATCH).
type CourseUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PreviewURL  *string `json:"preview_url"`
}

// LessonCreateRequest представляет запрос на создание урока
type LessonCreateRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description" binding:"required"`
	PreviewURL  string    `json:"preview_url"`
	VideoURL    string    `json:"video_url"`
	CourseID    uuid.UUID `json:"course_id" binding:"required"`
}

// LessonUpdateRequest представляет запрос на обновление урока
type LessonUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PreviewURL  *string `json:"preview_url"`
	VideoURL    *string `json:"video_url"`
}

// MaterialTitle возвращает человекочитаемое название материала
// либо значение по умолчанию
func MaterialTitle(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultMaterialTitle
	}
	return name
}

// ValidateVideoURL проверяет ссылку на видео. Разрешены только
// youtube.com и его поддомены; пустое значение допустимо.
// Проверка выполняется на каждом создании и обновлении урока.
func ValidateVideoURL(value string) error {
	if value == "" {
		return nil
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return NewValidationError("video_url", "malformed URL")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") {
		return nil
	}

	return NewValidationError("video_url",
		"разрешены только ссылки на YouTube")
}

// ApplyCourseUpdate накладывает частичное обновление на курс.
// UpdatedAt не трогаем: его выставляет хранилище при записи.
func ApplyCourseUpdate(course *Course, req CourseUpdateRequest) {
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.PreviewURL != nil {
		course.PreviewURL = *req.PreviewURL
	}
}

// ApplyLessonUpdate накладывает частичное обновление на урок
func ApplyLessonUpdate(lesson *Lesson, req LessonUpdateRequest) {
	if req.Name != nil {
		lesson.Name = *req.Name
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.PreviewURL != nil {
		lesson.PreviewURL = *req.PreviewURL
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
}
