package filter

import (
	"context"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pkg/dsl"
)

// RuleFilter 用 CEL 表达式过滤候选，表达式为 true 的候选被移除。
//
//	filters:
//	  - type: rule
//	    expr: '"nsfw" in item.tags'
type RuleFilter struct {
	program *dsl.Program
}

// NewRuleFilter 编译表达式，语法错误在构建时返回。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{program: p}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

// Expr 返回原始表达式
func (f *RuleFilter) Expr() string {
	return f.program.String()
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return f.program.Eval(item, rctx)
}
