package dsl

import (
	"testing"

	"github.com/rushteam/contentrec/core"
)

func TestProgram_Eval(t *testing.T) {
	item := core.NewItem(core.CandidateItem{
		ID:          "c1",
		Tags:        []string{"go", "nsfw"},
		ContentType: core.ContentPodcast,
		CategoryID:  "cat-tech",
	})
	item.PutLabel("recall_source", core.Label{Value: "recall.catalog", Source: "recall"})
	rctx := &core.RecommendContext{UserID: "u1", Params: map[string]any{"blocked_type": "podcast"}}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.content_type == "podcast"`, true},
		{`"nsfw" in item.tags`, true},
		{`"rust" in item.tags`, false},
		{`item.category == "cat-tech" && item.id == "c1"`, true},
		{`label.recall_source == "recall.catalog"`, true},
		{`user_id == "u2"`, false},
		{`has(params.blocked_type) && item.content_type == params.blocked_type`, true},
		{`has(params.missing)`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := p.Eval(item, rctx)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgram_NilContext(t *testing.T) {
	p, err := Compile(`size(item.tags) == 0 && item.category == ""`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got, err := p.Eval(core.NewItem(core.CandidateItem{ID: "x"}), nil)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if !got {
		t.Error("Eval() = false, want true")
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{`item.content_type ==`, `1 + 2`, `unknown_var == 1`} {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) error = nil, want error", expr)
		}
	}
}
