package jobs

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()

	job, err := r.Start("rankings")
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StatusRunning, job.Status)
	assert.Nil(t, job.FinishedAt)

	r.Complete(job.ID, 12)

	got, ok := r.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 12, got.Processed)
	require.NotNil(t, got.FinishedAt)
}

func TestRegistry_Fail(t *testing.T) {
	r := NewRegistry()

	job, err := r.Start("players")
	require.NoError(t, err)
	r.Fail(job.ID, eris.New("render service unreachable"))

	got, ok := r.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "render service unreachable")
}

func TestRegistry_RejectsConcurrentSameKind(t *testing.T) {
	r := NewRegistry()

	job, err := r.Start("rankings")
	require.NoError(t, err)

	_, err = r.Start("rankings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	// Other kinds are unaffected, and a finished kind can start again.
	_, err = r.Start("tournaments")
	require.NoError(t, err)

	r.Complete(job.ID, 1)
	_, err = r.Start("rankings")
	require.NoError(t, err)
}

func TestRegistry_ListNewestFirst(t *testing.T) {
	r := NewRegistry()

	a, err := r.Start("rankings")
	require.NoError(t, err)
	r.Complete(a.ID, 1)

	b, err := r.Start("tournaments")
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
	assert.False(t, list[0].StartedAt.Before(list[1].StartedAt))
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, ok := NewRegistry().Get("nope")
	assert.False(t, ok)
}

func TestRegistry_SnapshotsAreCopies(t *testing.T) {
	r := NewRegistry()

	job, err := r.Start("rankings")
	require.NoError(t, err)
	job.Status = StatusFailed

	got, ok := r.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, got.Status)
}
