package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateVideoURL - проверяет фильтр ссылок на видео
func TestValidateVideoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"пустая ссылка допустима", "", false},
		{"голый домен youtube.com", "https://youtube.com/watch?v=abc", false},
		{"www поддомен", "https://www.youtube.com/watch?v=abc", false},
		{"мобильный поддомен", "https://m.youtube.com/watch?v=abc", false},
		{"регистр не важен", "https://WWW.YouTube.COM/watch?v=abc", false},
		{"чужой хостинг", "https://vimeo.com/12345", true},
		{"youtube в середине домена", "https://youtube.com.attacker.net/watch", true},
		{"домен с суффиксом youtube", "https://evilyoutube.com/watch", true},
		{"похожий домен", "https://myyoutube.com/watch", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideoURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput),
					"ошибка валидации должна совпадать с ErrInvalidInput")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestMaterialTitle - проверяет подстановку названия материала
func TestMaterialTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Введение в Go", MaterialTitle("Введение в Go"))
	assert.Equal(t, DefaultMaterialTitle, MaterialTitle(""))
	assert.Equal(t, DefaultMaterialTitle, MaterialTitle("   "))
}

// TestApplyCourseUpdate - проверяет частичное обновление курса
func TestApplyCourseUpdate(t *testing.T) {
	t.Parallel()

	course := Course{Name: "Go", Description: "старое описание"}
	newName := "Go Advanced"

	ApplyCourseUpdate(&course, CourseUpdateRequest{Name: &newName})

	assert.Equal(t, "Go Advanced", course.Name)
	assert.Equal(t, "старое описание", course.Description, "непереданные поля не меняются")
}
