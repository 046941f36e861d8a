package filter

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// BlacklistFilter 是标题黑名单过滤器，过滤掉黑名单中的电影。
// 黑名单可以写在配置里（Titles），也可以放在 Store 中（Key 对应一个 JSON 字符串数组）。
// Store 为空时使用请求上的 rctx.Store。Store 中的黑名单由 FilterNode 在每次请求开始时读取一次。
type BlacklistFilter struct {
	// Titles 是内存中的黑名单标题
	Titles []string

	// Store 用于从存储中读取黑名单（可选）
	Store core.Store

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	set map[string]struct{}
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(titles []string, store core.Store, key string) *BlacklistFilter {
	f := &BlacklistFilter{Titles: titles, Store: store, Key: key}
	f.set = toSet(titles)
	return f
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Resolve 读取 Store 中的黑名单，返回合并了 Titles 的请求级过滤器。
// 没有配置 Key 或没有可用的 Store 时返回自身。
func (f *BlacklistFilter) Resolve(ctx context.Context, rctx *core.RecommendContext) (Filter, error) {
	if f.Key == "" {
		return f, nil
	}
	st := f.Store
	if st == nil && rctx != nil {
		st = rctx.Store
	}
	if st == nil {
		return nil, fmt.Errorf("blacklist %s: no store configured", f.Key)
	}

	titles, err := LoadBlacklist(ctx, st, f.Key)
	if err != nil {
		return nil, err
	}
	merged := make([]string, 0, len(f.Titles)+len(titles))
	merged = append(merged, f.Titles...)
	merged = append(merged, titles...)
	return &BlacklistFilter{Titles: merged, set: toSet(merged)}, nil
}

// ShouldFilter 只检查内存中的黑名单；Store 中的黑名单需要先经过 Resolve。
func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	set := f.set
	if set == nil {
		set = toSet(f.Titles)
	}
	_, ok := set[item.ID]
	return ok, nil
}

// LoadBlacklist 从 Store 读取 JSON 字符串数组形式的黑名单；key 不存在时返回空。
func LoadBlacklist(ctx context.Context, store core.Store, key string) ([]string, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load blacklist %s: %w", key, err)
	}
	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("decode blacklist %s: %w", key, err)
	}
	return titles, nil
}

// SaveBlacklist 把黑名单写为 JSON 字符串数组。
func SaveBlacklist(ctx context.Context, store core.Store, key string, titles []string) error {
	if titles == nil {
		titles = []string{}
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("encode blacklist %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save blacklist %s: %w", key, err)
	}
	return nil
}

func toSet(titles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[t] = struct{}{}
	}
	return set
}

var _ Filter = (*BlacklistFilter)(nil)
