package core

import (
	"strings"

	"github.com/rushteam/movierec/pkg/utils"
)

// 请求偏好的数量上限。
const (
	MaxGenres    = 5
	MaxDirectors = 3
)

// RecommendContext 承载一次推荐请求的偏好与请求级数据，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string // 可选；非空时随机因子按用户确定

	// Genres 偏好类型（最多 5 个，已 trim）
	Genres []string
	// Directors 偏好导演（最多 3 个，已 trim，精确匹配）
	Directors []string

	// Count 期望返回的电影数量 N
	Count int

	// DiversityFactor 随机项权重，取值 [0,1]
	DiversityFactor float64

	// Dataset 是本次请求使用的数据集（通常是预取后的快照），供 recall/feature 节点读取
	Dataset Dataset

	// Store 是可选的键值存储（例如 Redis），供黑名单等节点按 key 读取
	Store Store

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级附加参数（CEL 表达式中以 rctx.params 访问）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// CleanPreferences 对偏好列表 trim、去掉空项，并截断到 max 个。
func CleanPreferences(values []string, max int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == max {
			break
		}
	}
	return out
}
