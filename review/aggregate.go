package review

import "github.com/rushteam/movierec/core"

// Score 是已解析的一条分数；OK 为 false 表示缺失（无法解析）。
type Score struct {
	Key   string
	Value float64
	OK    bool
}

// Aggregate 解析原始影评记录并按 key 聚合。
func Aggregate(records []core.ReviewRecord) map[string]core.ReviewAggregate {
	scores := make([]Score, 0, len(records))
	for _, r := range records {
		v, ok := ParseScore(r.RawScore)
		scores = append(scores, Score{Key: r.Key, Value: v, OK: ok})
	}
	return AggregateScores(scores)
}

// AggregateScores 按 key 分组：Count 只统计有效分数，AvgScore 为有效分数均值。
// 输入中出现过的每个 key 都有一条聚合结果，即使它没有任何有效分数（此时 Count 为 0）。
func AggregateScores(scores []Score) map[string]core.ReviewAggregate {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, s := range scores {
		g, ok := groups[s.Key]
		if !ok {
			g = &acc{}
			groups[s.Key] = g
		}
		if !s.OK {
			continue
		}
		g.sum += s.Value
		g.count++
	}

	out := make(map[string]core.ReviewAggregate, len(groups))
	for key, g := range groups {
		agg := core.ReviewAggregate{Key: key, Count: g.count}
		if g.count > 0 {
			agg.AvgScore = g.sum / float64(g.count)
		}
		out[key] = agg
	}
	return out
}
