// Package builders 注册内置 Node 的配置构建器。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/feature"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

func init() {
	config.Register("recall.catalog", BuildCatalogNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("feature.review", BuildReviewNode)
	config.Register("feature.extra", BuildExtraColumnNode)
	config.Register("rank.score", BuildScoreNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildCatalogNode(cfg map[string]any) (pipeline.Node, error) {
	return &recall.Catalog{Label: conv.ConfigGet(cfg, "label", "")}, nil
}

// BuildFanoutNode 构建 recall.fanout；目前支持的召回源类型只有 catalog（通过 label 区分）。
func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "catalog":
			sources = append(sources, &recall.Catalog{Label: conv.ConfigGet(sourceMap, "label", "")})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources:  sources,
		Dedup:    conv.ConfigGet(cfg, "dedup", true),
		Required: conv.ConfigGet(cfg, "required", false),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "genre":
			filters = append(filters, &filter.GenreFilter{})
		case "director":
			filters = append(filters, &filter.DirectorFilter{})
		case "expr":
			f, err := filter.NewExprFilter(
				conv.ConfigGet(filterMap, "expr", ""),
				conv.ConfigGet(filterMap, "invert", false),
			)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "blacklist":
			// key 对应的黑名单从请求上的 Store 读取（CLI 中为 Redis）
			titles := conv.SliceAnyToString(filterMap["titles"])
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(titles, nil, key))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{
		Filters: filters,
		Workers: int(conv.ConfigGetInt64(cfg, "workers", 0)),
	}, nil
}

func BuildReviewNode(map[string]any) (pipeline.Node, error) {
	return &feature.ReviewEnrichNode{}, nil
}

func BuildExtraColumnNode(cfg map[string]any) (pipeline.Node, error) {
	return &feature.ExtraColumnNode{
		Columns: conv.SliceAnyToString(cfg["columns"]),
		Prefix:  conv.ConfigGet(cfg, "prefix", ""),
	}, nil
}

// BuildScoreNode 构建 rank.score；model 支持 quality（默认）与 lr。
// lr 模型可以内联 bias/weights，也可以通过 model_path 从 JSON 文件加载。
func BuildScoreNode(cfg map[string]any) (pipeline.Node, error) {
	switch modelType := conv.ConfigGet(cfg, "model", "quality"); modelType {
	case "", "quality":
		return &rank.ScoreNode{Model: &model.QualityModel{}}, nil
	case "lr":
		if path := conv.ConfigGet(cfg, "model_path", ""); path != "" {
			lr, err := model.LoadLRModel(path)
			if err != nil {
				return nil, err
			}
			return &rank.ScoreNode{Model: lr}, nil
		}
		weightsMap, ok := cfg["weights"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("weights not found")
		}
		lr := &model.LRModel{
			Bias:    conv.ConfigGetFloat64(cfg, "bias", 0),
			Weights: conv.MapToFloat64(weightsMap),
		}
		return &rank.ScoreNode{Model: lr}, nil
	default:
		return nil, fmt.Errorf("unknown model type: %s", modelType)
	}
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.DiversityNode{
		PoolMultiplier: int(conv.ConfigGetInt64(cfg, "pool_multiplier", rerank.DefaultPoolMultiplier)),
		N:              int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
