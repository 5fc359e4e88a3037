package feature

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rushteam/contentrec/core"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type stubCatalog struct {
	count int
	err   error
	calls int
	tags  []string
}

func (s *stubCatalog) FindCandidates(context.Context, map[string]struct{}, int) ([]core.CandidateItem, error) {
	return nil, nil
}

func (s *stubCatalog) CountItemsSharingAnyTag(_ context.Context, tags []string) (int, error) {
	s.calls++
	s.tags = tags
	return s.count, s.err
}

func TestExtractor_Recency(t *testing.T) {
	e := NewExtractor(core.DefaultScoringConfig())
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"brand new", 0, 1},
		{"45 days", 45 * 24 * time.Hour, 0.5},
		{"90 days", 90 * 24 * time.Hour, 0},
		{"older than horizon", 400 * 24 * time.Hour, 0},
		{"future", -48 * time.Hour, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Recency(now.Add(-tt.age), now)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Recency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_Popularity(t *testing.T) {
	e := NewExtractor(core.DefaultScoringConfig())
	tags := map[string]struct{}{"go": {}, "rust": {}}
	tests := []struct {
		name  string
		count int
		want  float64
	}{
		{"only itself", 1, 0},
		{"six others", 7, 0.6},
		{"saturates", 25, 1},
		{"empty catalog", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Popularity(context.Background(), &stubCatalog{count: tt.count}, tags)
			if err != nil {
				t.Fatalf("Popularity() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Popularity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_Build(t *testing.T) {
	cat := &stubCatalog{count: 6}
	item := core.CandidateItem{
		ID:          "c1",
		Tags:        []string{"python", "django", "python"},
		ContentType: core.ContentArticle,
		CreatedAt:   now.Add(-9 * 24 * time.Hour),
	}

	v, err := NewExtractor(core.DefaultScoringConfig()).Build(context.Background(), cat, item, now)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(v.Tags) != 2 || !v.HasTag("python") || !v.HasTag("django") {
		t.Errorf("Tags = %v, want {python, django}", v.Tags)
	}
	if v.ContentType != core.ContentArticle || v.CategoryID != "" {
		t.Errorf("type/category = %q/%q", v.ContentType, v.CategoryID)
	}
	if math.Abs(v.Popularity-0.5) > 1e-12 {
		t.Errorf("Popularity = %v, want 0.5", v.Popularity)
	}
	if math.Abs(v.Recency-0.9) > 1e-12 {
		t.Errorf("Recency = %v, want 0.9", v.Recency)
	}
	if len(cat.tags) != 2 {
		t.Errorf("catalog queried with %v, want 2 tags", cat.tags)
	}
}

func TestExtractor_Build_NoTagsSkipsCatalog(t *testing.T) {
	cat := &stubCatalog{count: 100}
	item := core.CandidateItem{ID: "c1", ContentType: core.ContentVideo, CreatedAt: now}

	v, err := NewExtractor(core.DefaultScoringConfig()).Build(context.Background(), cat, item, now)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if cat.calls != 0 {
		t.Errorf("catalog called %d times, want 0", cat.calls)
	}
	if v.Popularity != 0 {
		t.Errorf("Popularity = %v, want 0", v.Popularity)
	}
}

func TestExtractor_Build_PropagatesCatalogError(t *testing.T) {
	boom := errors.New("catalog down")
	item := core.CandidateItem{ID: "c1", Tags: []string{"go"}, CreatedAt: now}

	_, err := NewExtractor(core.DefaultScoringConfig()).Build(context.Background(), &stubCatalog{err: boom}, item, now)
	if !errors.Is(err, boom) {
		t.Fatalf("Build() error = %v, want %v", err, boom)
	}
}

func TestVectorNode_Process(t *testing.T) {
	cat := &stubCatalog{count: 3}
	rctx := &core.RecommendContext{Catalog: cat, Now: now}
	items := []*core.Item{
		core.NewItem(core.CandidateItem{ID: "a", Tags: []string{"go"}, CreatedAt: now}),
		core.NewItem(core.CandidateItem{ID: "b", Tags: []string{"rust"}, CreatedAt: now}),
	}

	out, err := (&VectorNode{}).Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	for _, it := range out {
		if it.Vector == nil {
			t.Fatalf("item %s has no vector", it.ID)
		}
		if math.Abs(it.Vector.Popularity-0.2) > 1e-12 {
			t.Errorf("item %s popularity = %v, want 0.2", it.ID, it.Vector.Popularity)
		}
	}
}

func TestVectorNode_Process_Error(t *testing.T) {
	rctx := &core.RecommendContext{Catalog: &stubCatalog{err: errors.New("timeout")}, Now: now}
	items := []*core.Item{core.NewItem(core.CandidateItem{ID: "a", Tags: []string{"go"}})}

	if _, err := (&VectorNode{}).Process(context.Background(), rctx, items); err == nil {
		t.Fatal("Process() error = nil, want error")
	}
}

func TestVectorNode_Process_SharesLookupsWithinCall(t *testing.T) {
	cat := &stubCatalog{count: 5}
	rctx := &core.RecommendContext{Catalog: cat, Now: now}
	items := []*core.Item{
		core.NewItem(core.CandidateItem{ID: "a", Tags: []string{"go", "grpc"}}),
		core.NewItem(core.CandidateItem{ID: "b", Tags: []string{"grpc", "go"}}),
		core.NewItem(core.CandidateItem{ID: "c", Tags: []string{"rust"}}),
	}

	if _, err := (&VectorNode{}).Process(context.Background(), rctx, items); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if cat.calls != 2 {
		t.Errorf("catalog calls = %d, want 2", cat.calls)
	}

	// 下一次调用重新读取
	if _, err := (&VectorNode{}).Process(context.Background(), rctx, items[:1]); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if cat.calls != 3 {
		t.Errorf("catalog calls after second call = %d, want 3", cat.calls)
	}
}

func TestExtractor_Build_RequiresCatalogForTags(t *testing.T) {
	e := NewExtractor(core.DefaultScoringConfig())

	_, err := e.Build(context.Background(), nil, core.CandidateItem{ID: "c1", Tags: []string{"go"}, CreatedAt: now}, now)
	if !core.IsInvalidInput(err) {
		t.Fatalf("Build() without catalog error = %v, want INVALID_INPUT", err)
	}

	v, err := e.Build(context.Background(), nil, core.CandidateItem{ID: "c2", CreatedAt: now}, now)
	if err != nil || v.Popularity != 0 {
		t.Errorf("Build() untagged without catalog = %+v, %v", v, err)
	}
}

func TestVectorNode_Process_NoCatalog(t *testing.T) {
	rctx := &core.RecommendContext{Now: now}
	items := []*core.Item{core.NewItem(core.CandidateItem{ID: "a", Tags: []string{"go"}})}

	if _, err := (&VectorNode{}).Process(context.Background(), rctx, items); !core.IsInvalidInput(err) {
		t.Fatalf("Process() error = %v, want INVALID_INPUT", err)
	}
}
