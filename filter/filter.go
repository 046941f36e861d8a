package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
// 实现必须可以被多个 goroutine 并发调用。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// preparer 由需要预编译的过滤器实现（例如 ExprFilter）。
// FilterNode 在处理前调用 Prepare，失败时整个节点失败。
type preparer interface {
	Prepare() error
}

// resolver 由需要按请求加载数据的过滤器实现（例如从 Store 读取黑名单的 BlacklistFilter）。
// FilterNode 每次 Process 调用一次 Resolve，本次请求的所有行都使用返回的过滤器。
type resolver interface {
	Resolve(ctx context.Context, rctx *core.RecommendContext) (Filter, error)
}
