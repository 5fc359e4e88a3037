// Package dsl 是基于 CEL 的候选规则表达式。
package dsl

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/contentrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("label", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("user_id", cel.StringType),
		cel.Variable("params", cel.MapType(cel.StringType, cel.DynType)),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的规则表达式，可并发复用。
//
// 表达式语法（CEL 标准语法），可用变量：
//   - item.id / item.title / item.content_type / item.category / item.status（string）
//   - item.tags（list(string)）、item.score（double）
//   - label.<key>：Item 上的 Label 值
//   - user_id、params.<key>：请求级信息
//
// 示例：
//   - `item.content_type == "podcast"`
//   - `"nsfw" in item.tags`
//   - `item.category == "" && size(item.tags) == 0`
//   - `has(params.blocked_type) && item.content_type == params.blocked_type`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType(); !reflect.DeepEqual(out, cel.BoolType) && !reflect.DeepEqual(out, cel.DynType) {
		return nil, fmt.Errorf("compile %q: expression must return bool, got %s", expr, out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式
func (p *Program) String() string { return p.expr }

// Eval 对一个候选求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	fields := map[string]any{
		"id":           "",
		"title":        "",
		"content_type": "",
		"category":     "",
		"status":       "",
		"tags":         []string{},
		"score":        0.0,
	}
	labels := map[string]string{}
	if item != nil {
		fields["id"] = item.ID
		fields["score"] = item.Score
		if c := item.Candidate; c != nil {
			fields["title"] = c.Title
			fields["content_type"] = string(c.ContentType)
			fields["category"] = c.CategoryID
			fields["status"] = string(c.Status)
			if c.Tags != nil {
				fields["tags"] = c.Tags
			}
		}
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
	}

	userID := ""
	params := map[string]any{}
	if rctx != nil {
		userID = rctx.UserID
		if rctx.Params != nil {
			params = rctx.Params
		}
	}

	return map[string]any{
		"item":    fields,
		"label":   labels,
		"user_id": userID,
		"params":  params,
	}
}
