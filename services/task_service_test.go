package services

import (
	"testing"
	"time"

	"organize.it/models"
	"organize.it/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))

	_, err := env.svc.Task.AddTask(env.ctx, ev.ID, bob.ID, "Bring chairs")
	assert.ErrorIs(t, err, ErrTaskAddForbidden)

	_, err = env.svc.Task.AddTask(env.ctx, ev.ID, alice.ID, "  ")
	assert.ErrorIs(t, err, ErrTaskTitleEmpty)

	_, err = env.svc.Task.AddTask(env.ctx, 4242, alice.ID, "Nope")
	assert.ErrorIs(t, err, ErrEventNotFound)

	task, err := env.svc.Task.AddTask(env.ctx, ev.ID, alice.ID, " Bring chairs ")
	require.NoError(t, err)
	assert.Equal(t, "Bring chairs", task.Title)
	assert.False(t, task.Completed)

	got, err := env.svc.Task.ToggleTask(env.ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTaskModifyForbidden)
	require.NotNil(t, got)
	assert.Equal(t, ev.ID, got.EventID)

	got, err = env.svc.Task.ToggleTask(env.ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	stored, err := repositories.NewTaskRepository(env.db).FindByID(env.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)

	got, err = env.svc.Task.ToggleTask(env.ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = env.svc.Task.DeleteTask(env.ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTaskDeleteForbidden)

	_, err = env.svc.Task.DeleteTask(env.ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, env.count(t, &models.Task{}, "id = ?", task.ID))

	_, err = env.svc.Task.ToggleTask(env.ctx, task.ID, alice.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_AllowsCreator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	ev := env.event(t, alice, "Dinner", time.Now().Add(72*time.Hour))

	// Görevi oluşturan organizatör değilse de silebilir
	task := &models.Task{EventID: ev.ID, UserID: bob.ID, Title: "Legacy task"}
	require.NoError(t, repositories.NewTaskRepository(env.db).Create(env.ctx, task))

	_, err := env.svc.Task.DeleteTask(env.ctx, task.ID, bob.ID)
	require.NoError(t, err)
}
