package service

import (
	"context"
	"testing"
	"time"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createUser(t *testing.T, email string) domain.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), domain.User{
		ID:    uuid.New(),
		Email: email,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createCourse(t *testing.T, ownerID uuid.UUID, name string) domain.Course {
	t.Helper()
	course, err := e.courseService().Create(context.Background(), ownerID, domain.CourseCreateRequest{
		Name:        name,
		Description: "описание",
	})
	require.NoError(t, err)
	return course
}

func (e *testEnv) subscribe(t *testing.T, userID, courseID uuid.UUID) {
	t.Helper()
	created, err := e.subscriptionService().Toggle(context.Background(), userID, courseID)
	require.NoError(t, err)
	require.True(t, created)
}

// TestCourseUpdate_NoFanoutWithinCooldown - обновление внутри четырех
// часов не порождает задач, но updated_at освежается
func TestCourseUpdate_NoFanoutWithinCooldown(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	subscriber := env.createUser(t, "sub@example.com")
	course := env.createCourse(t, owner.ID, "Go для начинающих")
	env.subscribe(t, subscriber.ID, course.ID)

	// Последнее обновление было час назад
	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-1*time.Hour))
	before, err := env.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)

	newName := "Go для продолжающих"
	updated, err := env.courseService().Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &newName})
	require.NoError(t, err)

	assert.Empty(t, env.producer.enqueued(), "внутри кулдауна рассылки быть не должно")
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt),
		"updated_at освежается при каждой записи независимо от рассылки")
	assert.Equal(t, "Go для продолжающих", updated.Name)
}

// TestCourseUpdate_FanoutAfterCooldown - обновление спустя более четырех
// часов ставит по одной задаче на каждого подписчика
func TestCourseUpdate_FanoutAfterCooldown(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	first := env.createUser(t, "first@example.com")
	second := env.createUser(t, "second@example.com")
	course := env.createCourse(t, owner.ID, "Архитектура сервисов")
	env.subscribe(t, first.ID, course.ID)
	env.subscribe(t, second.ID, course.ID)

	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-5*time.Hour))

	newDesc := "новая программа"
	_, err := env.courseService().Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Description: &newDesc})
	require.NoError(t, err)

	tasks := env.producer.enqueued()
	require.Len(t, tasks, 2, "по одной задаче на подписчика")

	emails := []string{tasks[0].SubscriberEmail, tasks[1].SubscriberEmail}
	assert.ElementsMatch(t, []string{"first@example.com", "second@example.com"}, emails)
	for _, task := range tasks {
		assert.Equal(t, course.ID, task.CourseID)
		assert.Equal(t, "Архитектура сервисов", task.CourseName)
		assert.Equal(t, "Архитектура сервисов", task.MaterialTitle)
	}
}

// TestCourseUpdate_CooldownBoundaryIsStrict - ровно четыре часа рассылку
// не запускают, сравнение строгое
func TestCourseUpdate_CooldownBoundaryIsStrict(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	subscriber := env.createUser(t, "sub@example.com")
	course := env.createCourse(t, owner.ID, "Kubernetes")
	env.subscribe(t, subscriber.ID, course.ID)

	// Фиксируем часы нотификатора, чтобы проверить границу точно
	frozen := time.Now()
	env.notifier.now = func() time.Time { return frozen }
	env.courses.SetUpdatedAt(course.ID, frozen.Add(-NotificationCooldown))

	newName := "Kubernetes в деталях"
	_, err := env.courseService().Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &newName})
	require.NoError(t, err)

	assert.Empty(t, env.producer.enqueued(), "ровно на границе кулдауна рассылки нет")

	// На наносекунду дальше границы рассылка уходит
	env.courses.SetUpdatedAt(course.ID, frozen.Add(-NotificationCooldown-time.Nanosecond))
	_, err = env.courseService().Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &newName})
	require.NoError(t, err)

	assert.Len(t, env.producer.enqueued(), 1)
}

// TestCourseUpdate_TwoSubscriberScenario - сквозной сценарий: рассылка,
// тишина внутри кулдауна, снова рассылка после его истечения
func TestCourseUpdate_TwoSubscriberScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	first := env.createUser(t, "first@example.com")
	second := env.createUser(t, "second@example.com")
	course := env.createCourse(t, owner.ID, "Потоковая обработка")
	env.subscribe(t, first.ID, course.ID)
	env.subscribe(t, second.ID, course.ID)

	svc := env.courseService()
	name := "Потоковая обработка данных"

	// T0: прошло больше кулдауна, обе задачи уходят
	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-5*time.Hour))
	_, err := svc.Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Len(t, env.producer.enqueued(), 2)

	// T0+1ч: кулдаун не истек, новых задач нет
	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-1*time.Hour))
	_, err = svc.Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Len(t, env.producer.enqueued(), 2)

	// T0+5ч: кулдаун истек, снова по задаче на подписчика
	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-5*time.Hour))
	_, err = svc.Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Len(t, env.producer.enqueued(), 4)
}

// TestCourseUpdate_ProducerFailureDoesNotFailRequest - отказ очереди не
// превращается в ошибку обновления
func TestCourseUpdate_ProducerFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	subscriber := env.createUser(t, "sub@example.com")
	course := env.createCourse(t, owner.ID, "Паттерны Go")
	env.subscribe(t, subscriber.ID, course.ID)

	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-5*time.Hour))
	env.producer.failErr = assert.AnError

	newName := "Паттерны конкурентности"
	updated, err := env.courseService().Update(ctx, owner.ID, course.ID, domain.CourseUpdateRequest{Name: &newName})

	require.NoError(t, err, "судьба рассылки не влияет на результат обновления")
	assert.Equal(t, "Паттерны конкурентности", updated.Name)
}

// TestLessonUpdate_UsesCourseTimestampAndLessonTitle - обновление урока
// считается обновлением курса: кулдаун считается по курсу, а материалом выступает урок
func TestLessonUpdate_UsesCourseTimestampAndLessonTitle(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	subscriber := env.createUser(t, "sub@example.com")
	course := env.createCourse(t, owner.ID, "Базы данных")
	env.subscribe(t, subscriber.ID, course.ID)

	lesson, err := env.lessonService().Create(ctx, owner.ID, domain.LessonCreateRequest{
		Name:        "Индексы",
		Description: "про индексы",
		CourseID:    course.ID,
	})
	require.NoError(t, err)

	env.courses.SetUpdatedAt(course.ID, time.Now().Add(-5*time.Hour))

	newName := "Индексы и планы запросов"
	_, err = env.lessonService().Update(ctx, owner.ID, lesson.ID, domain.LessonUpdateRequest{Name: &newName})
	require.NoError(t, err)

	tasks := env.producer.enqueued()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Базы данных", tasks[0].CourseName)
	assert.Equal(t, "Индексы и планы запросов", tasks[0].MaterialTitle)

	// updated_at курса освежился, немедленное повторное обновление молчит
	newName2 := "Индексы на практике"
	_, err = env.lessonService().Update(ctx, owner.ID, lesson.ID, domain.LessonUpdateRequest{Name: &newName2})
	require.NoError(t, err)
	assert.Len(t, env.producer.enqueued(), 1)
}

// TestLessonCreate_RejectsForeignVideoHosting - создание урока с видео
// не с YouTube отклоняется
func TestLessonCreate_RejectsForeignVideoHosting(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	course := env.createCourse(t, owner.ID, "Сети")

	_, err := env.lessonService().Create(ctx, owner.ID, domain.LessonCreateRequest{
		Name:        "TCP",
		Description: "про TCP",
		VideoURL:    "https://vimeo.com/12345",
		CourseID:    course.ID,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestCourseAccess_ModeratorCanEditButNotDelete - модератор правит чужие
// курсы, но не удаляет их
func TestCourseAccess_ModeratorCanEditButNotDelete(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	moderator, err := env.users.Create(ctx, domain.User{
		ID:          uuid.New(),
		Email:       "mod@example.com",
		IsModerator: true,
	})
	require.NoError(t, err)
	stranger := env.createUser(t, "stranger@example.com")

	course := env.createCourse(t, owner.ID, "Линтеры")

	newName := "Линтеры и статический анализ"
	_, err = env.courseService().Update(ctx, moderator.ID, course.ID, domain.CourseUpdateRequest{Name: &newName})
	assert.NoError(t, err)

	_, err = env.courseService().Update(ctx, stranger.ID, course.ID, domain.CourseUpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = env.courseService().Delete(ctx, moderator.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = env.courseService().Delete(ctx, owner.ID, course.ID)
	assert.NoError(t, err)
}

// TestCourseDelete_Cascades - удаление курса сносит уроки и подписки,
// платежи остаются без ссылки на курс
func TestCourseDelete_Cascades(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	subscriber := env.createUser(t, "sub@example.com")
	course := env.createCourse(t, owner.ID, "Очереди")
	env.subscribe(t, subscriber.ID, course.ID)

	lesson, err := env.lessonService().Create(ctx, owner.ID, domain.LessonCreateRequest{
		Name:        "Kafka",
		Description: "про Kafka",
		CourseID:    course.ID,
	})
	require.NoError(t, err)

	payment, err := env.payments.Create(ctx, domain.Payment{
		ID:       uuid.New(),
		UserID:   subscriber.ID,
		CourseID: &course.ID,
		Amount:   5000,
		Method:   domain.PaymentMethodCash,
		Status:   domain.PaymentStatusPaid,
	})
	require.NoError(t, err)

	require.NoError(t, env.courseService().Delete(ctx, owner.ID, course.ID))

	_, err = env.courses.GetByID(ctx, course.ID)
	assert.Error(t, err)
	_, err = env.lessons.GetByID(ctx, lesson.ID)
	assert.Error(t, err)

	subs, err := env.subscriptions.GetByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	kept, err := env.payments.GetByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.CourseID, "платеж сохраняется, но ссылка на курс обнуляется")
}
