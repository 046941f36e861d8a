package filter

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// chunkSize 是并发过滤时每个 goroutine 处理的行数下限。
const chunkSize = 256

// 请求级 Label：过滤器求值失败的次数与第一条错误信息。
const (
	LabelFilterErrors     = "filter_errors"
	LabelFilterFirstError = "filter_first_error"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉（多个过滤器之间是“且”的保留关系）。
// Workers > 1 时按行分片并发求值，输出顺序始终与输入顺序一致。
//
// 过滤器对某一行返回错误时该过滤器不生效（行被保留），
// 失败次数写入请求级 Label filter_errors，可通过 ErrorCount 读取。
type FilterNode struct {
	Filters []Filter
	Workers int
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}
	filters, err := n.resolve(ctx, rctx)
	if err != nil {
		return nil, err
	}

	var errs errTally
	keep := make([]bool, len(items))
	if n.Workers <= 1 || len(items) <= chunkSize {
		for i, item := range items {
			keep[i] = check(ctx, rctx, filters, item, &errs)
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(n.Workers)
		for start := 0; start < len(items); start += chunkSize {
			start := start
			end := min(start+chunkSize, len(items))
			eg.Go(func() error {
				for i := start; i < end; i++ {
					if err := egCtx.Err(); err != nil {
						return err
					}
					keep[i] = check(egCtx, rctx, filters, items[i], &errs)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}
	errs.report(rctx, n.Name())

	out := make([]*core.Item, 0, len(items))
	for i, item := range items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out, nil
}

// resolve 编译需要预编译的过滤器，并加载请求级数据。FilterNode 本身不被修改。
func (n *FilterNode) resolve(ctx context.Context, rctx *core.RecommendContext) ([]Filter, error) {
	filters := make([]Filter, len(n.Filters))
	for i, f := range n.Filters {
		if p, ok := f.(preparer); ok {
			if err := p.Prepare(); err != nil {
				return nil, err
			}
		}
		if r, ok := f.(resolver); ok {
			rf, err := r.Resolve(ctx, rctx)
			if err != nil {
				return nil, err
			}
			f = rf
		}
		filters[i] = f
	}
	return filters, nil
}

// check 依次检查每个过滤器，返回是否保留。
func check(
	ctx context.Context,
	rctx *core.RecommendContext,
	filters []Filter,
	item *core.Item,
	errs *errTally,
) bool {
	if item == nil {
		return false
	}
	for _, f := range filters {
		ok, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			// 过滤器错误时记录但不中断流程
			item.PutLabel("filter_error", utils.Label{Value: err.Error(), Source: f.Name()})
			errs.add(f.Name(), err)
			continue
		}
		if ok {
			// 记录过滤原因（可选，用于调试/观测）
			item.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
			return false
		}
	}
	return true
}

// errTally 统计一次 Process 中过滤器返回的错误。
type errTally struct {
	mu     sync.Mutex
	count  int
	first  string
	source string
}

func (t *errTally) add(source string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		t.first = err.Error()
		t.source = source
	}
	t.count++
}

func (t *errTally) report(rctx *core.RecommendContext, node string) {
	if t.count == 0 || rctx == nil {
		return
	}
	rctx.PutLabel(LabelFilterErrors, utils.IntLabel(t.count, node))
	if _, ok := rctx.GetLabel(LabelFilterFirstError); !ok {
		rctx.PutLabel(LabelFilterFirstError, utils.Label{Value: t.first, Source: t.source})
	}
}

// ErrorCount 返回本次请求中过滤器求值失败的次数（多个 FilterNode 累加）。
func ErrorCount(rctx *core.RecommendContext) int {
	if rctx == nil {
		return 0
	}
	lbl, ok := rctx.GetLabel(LabelFilterErrors)
	if !ok {
		return 0
	}
	total := 0
	for _, v := range strings.Split(lbl.Value, "|") {
		if n, err := strconv.Atoi(v); err == nil {
			total += n
		}
	}
	return total
}

// FirstError 返回本次请求中第一条过滤器错误信息。
func FirstError(rctx *core.RecommendContext) string {
	if rctx == nil {
		return ""
	}
	lbl, _ := rctx.GetLabel(LabelFilterFirstError)
	return lbl.Value
}
