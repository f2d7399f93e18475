package service

import (
	"context"
	"testing"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestToggle_Parity - после N переключений подписка существует только
// при нечетном N
func TestToggle_Parity(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com")
	user := env.createUser(t, "user@example.com")
	course := env.createCourse(t, owner.ID, "Go")

	svc := env.subscriptionService()

	// Два переключения возвращают к исходному состоянию
	created, err := svc.Toggle(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Toggle(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)

	subs, err := env.subscriptions.GetByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	// Третье переключение снова создает подписку
	created, err = svc.Toggle(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)

	subs, err = env.subscriptions.GetByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

// TestToggle_UnknownCourse - переключение подписки на несуществующий
// курс отклоняется
func TestToggle_UnknownCourse(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	user := env.createUser(t, "user@example.com")

	_, err := env.subscriptionService().Toggle(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
