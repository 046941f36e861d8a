package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/movierec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境，定义 item / label / rctx 三个变量
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
			// 允许 item.features.review_count >= 3 这种 int/double 混合比较
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的 Label DSL 表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可以并发地对多个 item 求值。
//
// 可用变量：
//   - item.title / item.genres / item.director / item.extra["tomatometer_rating"]
//   - item.score / item.features.review_count / item.meta
//   - label.<key>（label 的 value）
//   - rctx.user_id / rctx.genres / rctx.directors / rctx.count / rctx.params
//
// 示例：
//   - `item.features.review_count >= 3`
//   - `item.extra["tomatometer_rating"] != "" && int(item.extra["tomatometer_rating"]) > 60`
//   - `!item.title.startsWith("The ")`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。空表达式恒为 true。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{}, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式。
func (p *Program) Expr() string {
	return p.expr
}

// Eval 对单个 item 求值。
// 访问不存在的 map key 时 CEL 会返回错误，可以先用 has() 或 `"key" in item.meta` 判断。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	features := item.Features
	if features == nil {
		features = map[string]float64{}
	}
	meta := item.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	it := map[string]any{
		"id":       item.ID,
		"title":    item.ID,
		"score":    item.Score,
		"features": features,
		"meta":     meta,
		"genres":   "",
		"director": "",
		"extra":    map[string]any{},
	}
	if m := item.Movie; m != nil {
		it["genres"] = m.Genres
		it["director"] = m.Director
		it["extra"] = stringMap(m.Extra)
	}

	rc := map[string]any{
		"user_id":   "",
		"genres":    []string{},
		"directors": []string{},
		"count":     0,
		"params":    map[string]any{},
	}
	if rctx != nil {
		rc["user_id"] = rctx.UserID
		rc["genres"] = nonNil(rctx.Genres)
		rc["directors"] = nonNil(rctx.Directors)
		rc["count"] = rctx.Count
		if rctx.Params != nil {
			rc["params"] = rctx.Params
		}
	}

	return map[string]any{
		"item":  it,
		"label": labels,
		"rctx":  rc,
	}
}

// stringMap 把 map[string]string 转为 map[string]any。
// 原生 map[string]string 的值在 CEL 中无法匹配 int(string) / double(string) 重载。
func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
