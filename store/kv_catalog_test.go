package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/contentrec/core"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) *KVCatalog {
	t.Helper()
	s := NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	c := NewKVCatalog(s, "test")

	ctx := context.Background()
	items := []core.CandidateItem{
		{ID: "a", Tags: []string{"go", "grpc"}, ContentType: core.ContentArticle, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", Tags: []string{"go"}, ContentType: core.ContentVideo, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "c", Tags: []string{"rust", "go", "go"}, ContentType: core.ContentBook, CategoryID: "prog", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "d", ContentType: core.ContentPodcast, CreatedAt: now.Add(-3 * time.Hour)},
	}
	for _, it := range items {
		require.NoError(t, c.PutItem(ctx, it))
	}
	return c
}

func TestKVCatalog_FindCandidates(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	got, err := c.FindCandidates(ctx, map[string]struct{}{"b": {}}, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"c", "a", "d"}, ids)
	assert.Equal(t, []string{"rust", "go"}, got[0].Tags)
	assert.Equal(t, "prog", got[0].CategoryID)

	limited, err := c.FindCandidates(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "b", limited[0].ID)
	assert.Equal(t, "c", limited[1].ID)
}

func TestKVCatalog_CountItemsSharingAnyTag(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		tags []string
		want int
	}{
		{[]string{"go"}, 3},
		{[]string{"grpc", "rust"}, 2},
		{[]string{"go", "rust", "grpc"}, 3},
		{[]string{"none"}, 0},
		{nil, 0},
	}
	for _, tt := range tests {
		n, err := c.CountItemsSharingAnyTag(ctx, tt.tags)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n, "tags %v", tt.tags)
	}
}

func TestKVCatalog_PutItemReplacesTags(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.PutItem(ctx, core.CandidateItem{ID: "a", Tags: []string{"go", "k8s"}, CreatedAt: now}))

	n, err := c.CountItemsSharingAnyTag(ctx, []string{"grpc"})
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a no longer carries grpc")

	n, err = c.CountItemsSharingAnyTag(ctx, []string{"k8s"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.CountItemsSharingAnyTag(ctx, []string{"go"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestKVCatalog_GetItem(t *testing.T) {
	c := newTestCatalog(t)

	it, err := c.GetItem(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, it.CreatedAt.Equal(now.Add(-2*time.Hour)))

	_, err = c.GetItem(context.Background(), "zzz")
	assert.True(t, core.IsNotFound(err))
}

func TestKVCatalog_History(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	empty, err := c.GetEngagementRecords(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, c.AddEngagement(ctx, "u1", core.EngagementRecord{ItemID: "a", Tags: []string{"go"}, Status: core.StatusNew, CreatedAt: now}))
	require.NoError(t, c.AddEngagement(ctx, "u1", core.EngagementRecord{ItemID: "b", Status: core.StatusCompleted, CreatedAt: now}))
	require.NoError(t, c.AddEngagement(ctx, "u1", core.EngagementRecord{ItemID: "a", Tags: []string{"go"}, Status: core.StatusCompleted, CreatedAt: now}))

	history, err := c.GetEngagementRecords(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].ItemID)
	assert.Equal(t, core.StatusCompleted, history[0].Status)

	err = c.AddEngagement(ctx, "", core.EngagementRecord{ItemID: "a"})
	assert.True(t, core.IsInvalidInput(err))
}

func TestKVCatalog_PutItemRequiresID(t *testing.T) {
	c := newTestCatalog(t)
	err := c.PutItem(context.Background(), core.CandidateItem{})
	assert.True(t, core.IsInvalidInput(err))
}
