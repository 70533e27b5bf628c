package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewStore(db)
}

func completedRun(id string, startedAt time.Time) *Run {
	return &Run{
		Id:                 id,
		Status:             "completed",
		Records:            2,
		DescriptionSuccess: 1,
		DescriptionFailed:  0,
		DescriptionSkipped: 1,
		FAQCount:           12,
		StartedAt:          startedAt,
		FinishedAt:         startedAt.Add(time.Minute),
	}
}

func TestSaveRunAndGetRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	startedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	records := []RunRecord{
		{RunId: "run-1", RecordId: "DB0002", DescriptionStatus: "skipped", SummaryStatus: "skipped", SentenceStatus: "skipped"},
		{RunId: "run-1", RecordId: "DB0001", DescriptionStatus: "success", SummaryStatus: "success", SentenceStatus: "success", FAQs: 12},
	}
	require.NoError(t, store.SaveRun(ctx, completedRun("run-1", startedAt), records))

	run, got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 12, run.FAQCount)
	assert.Empty(t, run.Error)

	require.Len(t, got, 2)
	assert.Equal(t, "DB0001", got[0].RecordId, "records come back ordered by record id")
	assert.Equal(t, 12, got[0].FAQs)
	assert.Equal(t, "DB0002", got[1].RecordId)
}

func TestSaveRunPersistsFailure(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := &Run{
		Id:         "run-err",
		Status:     "failed",
		Error:      "load records: open database.json: no such file",
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveRun(ctx, run, nil))

	got, records, err := store.GetRun(ctx, "run-err")
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Contains(t, got.Error, "no such file")
	assert.Empty(t, records)
}

func TestSaveRunRejectsDuplicateId(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	startedAt := time.Now().UTC()

	require.NoError(t, store.SaveRun(ctx, completedRun("run-1", startedAt), nil))
	err := store.SaveRun(ctx, completedRun("run-1", startedAt), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert run")
}

func TestListRunsNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.SaveRun(ctx, completedRun(id, base.Add(time.Duration(i)*time.Hour)), nil))
	}

	runs, err := store.ListRuns(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].Id)
	assert.Equal(t, "run-1", runs[2].Id)

	page, err := store.ListRuns(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "run-2", page[0].Id)
}

func TestGetRunNotFound(t *testing.T) {
	store := testStore(t)

	_, _, err := store.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
