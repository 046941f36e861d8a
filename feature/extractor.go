package feature

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
)

// ExtraColumnNode 把电影目录中额外的数值列（例如 tomatometer_rating）抽取为特征，
// 方便排序模型或 CEL 表达式（item.features.tomatometer_rating）使用。
//
// 字段命名：Prefix + 列名。无法解析为数字或为空的值会被跳过。
type ExtraColumnNode struct {
	// Columns 要抽取的列；为空时抽取所有可解析为数字的额外列
	Columns []string
	// Prefix 特征前缀（可选）
	Prefix string
}

func (n *ExtraColumnNode) Name() string        { return "feature.extra" }
func (n *ExtraColumnNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *ExtraColumnNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil || it.Movie == nil {
			continue
		}
		for k, v := range n.Extract(it.Movie) {
			it.SetFeature(k, v)
		}
	}
	return items, nil
}

// Extract 从一部电影的额外列中抽取数值特征。
func (n *ExtraColumnNode) Extract(m *core.Movie) map[string]float64 {
	features := make(map[string]float64)
	if m == nil || len(m.Extra) == 0 {
		return features
	}
	if len(n.Columns) == 0 {
		for k, v := range m.Extra {
			if fv, ok := conv.ToFloat64(v); ok {
				features[n.Prefix+k] = fv
			}
		}
		return features
	}
	for _, k := range n.Columns {
		v, ok := m.Extra[k]
		if !ok {
			continue
		}
		if fv, ok := conv.ToFloat64(v); ok {
			features[n.Prefix+k] = fv
		}
	}
	return features
}
