package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤：表达式为 false 的电影被移除。
// Invert 为 true 时反过来，表达式为 true 的电影被移除。
//
//	&ExprFilter{Expr: `item.features.review_count >= 3`}
type ExprFilter struct {
	Expr   string
	Invert bool

	once sync.Once
	prg  *dsl.Program
	err  error
}

// NewExprFilter 创建并立即编译表达式过滤器。
func NewExprFilter(expr string, invert bool) (*ExprFilter, error) {
	f := &ExprFilter{Expr: expr, Invert: invert}
	if err := f.Prepare(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

// Prepare 编译表达式，只执行一次。
func (f *ExprFilter) Prepare() error {
	f.once.Do(func() {
		f.prg, f.err = dsl.Compile(f.Expr)
		if f.err != nil {
			f.err = fmt.Errorf("filter expr %q: %w", f.Expr, f.err)
		}
	})
	return f.err
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if err := f.Prepare(); err != nil {
		return false, err
	}
	if item == nil {
		return true, nil
	}
	ok, err := f.prg.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	if f.Invert {
		return ok, nil
	}
	return !ok, nil
}

var _ Filter = (*ExprFilter)(nil)
