package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/rerank"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// mockCatalog 忽略 exclude，用来验证历史过滤。
type mockCatalog struct {
	mu         sync.Mutex
	items      []core.CandidateItem
	history    map[string][]core.EngagementRecord
	count      int
	findErr    error
	countErr   error
	historyErr error
	calls      int
}

func (m *mockCatalog) FindCandidates(_ context.Context, _ map[string]struct{}, limit int) ([]core.CandidateItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	if len(m.items) > limit {
		return m.items[:limit], nil
	}
	return m.items, nil
}

func (m *mockCatalog) CountItemsSharingAnyTag(context.Context, []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.count, m.countErr
}

func (m *mockCatalog) GetEngagementRecords(_ context.Context, userID string) ([]core.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history[userID], nil
}

func newEngine(t *testing.T, m *mockCatalog, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	e, err := New(core.DefaultScoringConfig(), m, m, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func pythonReader() *mockCatalog {
	return &mockCatalog{
		history: map[string][]core.EngagementRecord{
			"u1": {
				{ItemID: "h1", Tags: []string{"python", "django"}, ContentType: core.ContentArticle, Status: core.StatusCompleted, CreatedAt: now},
			},
		},
		items: []core.CandidateItem{
			{ID: "h1", Tags: []string{"python", "django"}, ContentType: core.ContentArticle, CreatedAt: now},
			{ID: "c1", Tags: []string{"python", "django"}, ContentType: core.ContentArticle, CreatedAt: now.Add(-9 * 24 * time.Hour)},
			{ID: "c2", Tags: []string{"python"}, ContentType: core.ContentVideo, CreatedAt: now},
			{ID: "c3", Tags: []string{"rust"}, ContentType: core.ContentVideo, CreatedAt: now.Add(-200 * 24 * time.Hour)},
			{ID: "c4", Tags: []string{"cooking"}, ContentType: core.ContentArticle, CreatedAt: now},
		},
		count: 6,
	}
}

func TestEngine_Recommend(t *testing.T) {
	e := newEngine(t, pythonReader())

	recs, err := e.Recommend(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// c1: 0.4*1 + 0.3*1 + 0.05*0.5 + 0.05*0.9 = 0.77
	// c4: 0.3*1 + 0.05*0.5 + 0.05*1 = 0.375
	// c2: 0.4*0.5 + 0.05*0.5 + 0.05*1 = 0.275
	// c3: 0.05*0.5 = 0.025, below the floor
	want := []struct {
		id    string
		score float64
	}{
		{"c1", 0.77},
		{"c4", 0.375},
		{"c2", 0.275},
	}
	if len(recs) != len(want) {
		t.Fatalf("Recommend() returned %d results, want %d", len(recs), len(want))
	}
	for i, w := range want {
		if recs[i].Item.ID != w.id {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].Item.ID, w.id)
		}
		if math.Abs(recs[i].Score-w.score) > 1e-9 {
			t.Errorf("recs[%d] score = %v, want %v", i, recs[i].Score, w.score)
		}
	}
	if !strings.HasPrefix(recs[0].Reason, "shared tags: django, python") {
		t.Errorf("recs[0] reason = %q", recs[0].Reason)
	}
	if recs[1].Reason != "you often save articles • fresh content" {
		t.Errorf("recs[1] reason = %q", recs[1].Reason)
	}
}

func TestEngine_Recommend_ExcludesHistory(t *testing.T) {
	e := newEngine(t, pythonReader())

	recs, err := e.Recommend(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range recs {
		if r.Item.ID == "h1" {
			t.Fatal("history item h1 was recommended")
		}
	}
}

func TestEngine_Recommend_Limit(t *testing.T) {
	e := newEngine(t, pythonReader())

	recs, err := e.Recommend(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 1 || recs[0].Item.ID != "c1" {
		t.Errorf("Recommend(limit=1) = %v", recs)
	}
}

func TestEngine_Recommend_NonPositiveLimit(t *testing.T) {
	m := pythonReader()
	e := newEngine(t, m)

	for _, limit := range []int{0, -3} {
		recs, err := e.Recommend(context.Background(), "u1", limit)
		if err != nil {
			t.Fatalf("Recommend(limit=%d) error = %v", limit, err)
		}
		if recs == nil || len(recs) != 0 {
			t.Errorf("Recommend(limit=%d) = %v, want empty", limit, recs)
		}
	}
	if m.calls != 0 {
		t.Errorf("collaborators called %d times, want 0", m.calls)
	}
}

func TestEngine_Recommend_EmptyHistory(t *testing.T) {
	m := pythonReader()
	m.count = 100
	e := newEngine(t, m)

	recs, err := e.Recommend(context.Background(), "newcomer", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recommend() for empty history = %d results, want 0", len(recs))
	}
}

func TestEngine_Recommend_CollaboratorErrors(t *testing.T) {
	boom := errors.New("catalog unavailable")
	tests := []struct {
		name   string
		mutate func(*mockCatalog)
	}{
		{"history", func(m *mockCatalog) { m.historyErr = boom }},
		{"find candidates", func(m *mockCatalog) { m.findErr = boom }},
		{"count tags", func(m *mockCatalog) { m.countErr = boom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pythonReader()
			tt.mutate(m)
			recs, err := newEngine(t, m).Recommend(context.Background(), "u1", 10)
			if !errors.Is(err, boom) {
				t.Fatalf("Recommend() error = %v, want %v", err, boom)
			}
			if recs != nil {
				t.Errorf("Recommend() returned partial results: %v", recs)
			}
		})
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	e := newEngine(t, pythonReader())

	first, err := e.Recommend(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(context.Background(), "u1", 10)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d results, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Item.ID != first[j].Item.ID || again[j].Score != first[j].Score || again[j].Reason != first[j].Reason {
				t.Fatalf("run %d differs at %d", i, j)
			}
		}
	}
}

func TestEngine_Profile(t *testing.T) {
	e := newEngine(t, pythonReader())

	p, err := e.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.TotalItems != 1 || math.Abs(p.TagWeight("python")-0.5) > 1e-12 || p.TypeWeight(core.ContentArticle) != 1 {
		t.Errorf("Profile() = %+v", p)
	}
}

func TestEngine_RecommendBatch(t *testing.T) {
	m := pythonReader()
	m.history["u2"] = []core.EngagementRecord{
		{ItemID: "h2", Tags: []string{"rust"}, ContentType: core.ContentVideo, Status: core.StatusNew, CreatedAt: now},
	}
	e := newEngine(t, m, WithBatchConcurrency(2))

	out, err := e.RecommendBatch(context.Background(), []string{"u1", "u2", "u3"}, 2)
	if err != nil {
		t.Fatalf("RecommendBatch() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("RecommendBatch() returned %d users, want 3", len(out))
	}
	if len(out["u1"]) != 2 || out["u1"][0].Item.ID != "c1" {
		t.Errorf("u1 = %v", out["u1"])
	}
	// u2: c3 = 0.4 + 0.3 + 0.025, c2 = 0.3 + 0.025 + 0.05
	if len(out["u2"]) != 2 || out["u2"][0].Item.ID != "c3" || out["u2"][1].Item.ID != "c2" {
		t.Errorf("u2 = %v", out["u2"])
	}
	if len(out["u3"]) != 0 {
		t.Errorf("u3 = %v, want empty", out["u3"])
	}
}

func TestEngine_RecommendBatch_Error(t *testing.T) {
	m := pythonReader()
	m.findErr = errors.New("down")
	e := newEngine(t, m)

	if _, err := e.RecommendBatch(context.Background(), []string{"u1", "u2"}, 5); err == nil {
		t.Fatal("RecommendBatch() error = nil, want error")
	}
}

func TestEngine_WithPipeline(t *testing.T) {
	m := pythonReader()
	cfg := core.DefaultScoringConfig()
	p := DefaultPipeline(cfg)
	p.Nodes = append(p.Nodes[:len(p.Nodes)-1], &rerank.Diversity{MaxPerCategory: 1}, &rerank.TopNNode{})
	e := newEngine(t, m, WithPipeline(p))

	recs, err := e.Recommend(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("Recommend() = %d results, want 3 (no categories to cap)", len(recs))
	}
}

func TestEngine_TruncatesCustomPipeline(t *testing.T) {
	m := pythonReader()
	cfg := core.DefaultScoringConfig()
	full := DefaultPipeline(cfg)
	// 去掉 TopN，引擎仍需保证结果不超过 limit
	e := newEngine(t, m, WithPipeline(pipeline.New(full.Nodes[:len(full.Nodes)-1]...)))

	recs, err := e.Recommend(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Recommend(limit=2) = %d results", len(recs))
	}
}

func TestNew_Validation(t *testing.T) {
	m := pythonReader()
	if _, err := New(core.DefaultScoringConfig(), nil, m, zerolog.Nop()); !core.IsInvalidInput(err) {
		t.Errorf("New(nil catalog) error = %v, want INVALID_INPUT", err)
	}
	bad := core.DefaultScoringConfig()
	bad.Weights.Tag = 0.9
	if _, err := New(bad, m, m, zerolog.Nop()); !core.IsInvalidInput(err) {
		t.Errorf("New(bad weights) error = %v, want INVALID_INPUT", err)
	}
}
