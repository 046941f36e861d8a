package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rushteam/movierec/core"
)

// 每读取这么多行检查一次 ctx 是否已取消。
const ctxCheckInterval = 1024

// CSVSource 从两份带表头的 CSV 文件读取数据集。
//   - MoviesPath：至少包含 movie_title、genres、directors 列，可选 rotten_tomatoes_link
//   - ReviewsPath：包含 rotten_tomatoes_link、review_score 列
//
// 列按表头名称定位，其余列原样保存在 Movie.Extra 中。
type CSVSource struct {
	MoviesPath  string
	ReviewsPath string
}

var _ Source = (*CSVSource)(nil)

// movieKnownColumns 已映射到 Movie 字段的列，不再放入 Extra。
var movieKnownColumns = map[string]bool{
	core.ColumnTitle:     true,
	core.ColumnGenres:    true,
	core.ColumnDirectors: true,
	core.ColumnReviewKey: true,
}

func (s *CSVSource) Movies(ctx context.Context) ([]core.Movie, error) {
	var movies []core.Movie
	err := readCSV(ctx, s.MoviesPath, core.RequiredMovieColumns, func(t *table, row []string) {
		m := core.Movie{
			Title:     t.get(row, core.ColumnTitle),
			Genres:    t.get(row, core.ColumnGenres),
			Director:  t.get(row, core.ColumnDirectors),
			ReviewKey: t.get(row, core.ColumnReviewKey),
		}
		for i, name := range t.header {
			if movieKnownColumns[name] || i >= len(row) {
				continue
			}
			if m.Extra == nil {
				m.Extra = make(map[string]string)
			}
			m.Extra[name] = row[i]
		}
		movies = append(movies, m)
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// Reviews 读取影评表；完全相同的行只保留一条。
func (s *CSVSource) Reviews(ctx context.Context) ([]core.ReviewRecord, error) {
	var records []core.ReviewRecord
	seen := make(map[string]struct{})
	required := []string{core.ColumnReviewKey, core.ColumnReviewScore}
	err := readCSV(ctx, s.ReviewsPath, required, func(t *table, row []string) {
		fingerprint := strings.Join(row, "\x1f")
		if _, dup := seen[fingerprint]; dup {
			return
		}
		seen[fingerprint] = struct{}{}
		records = append(records, core.ReviewRecord{
			Key:      t.get(row, core.ColumnReviewKey),
			RawScore: t.get(row, core.ColumnReviewScore),
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// table 记录表头及列名到下标的映射。
type table struct {
	header []string
	index  map[string]int
}

func (t *table) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func readCSV(ctx context.Context, path string, required []string, fn func(*table, []string)) error {
	if path == "" {
		return core.NewDataUnavailable("dataset path is empty", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return core.NewDataUnavailable(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return core.NewDataUnavailable(fmt.Sprintf("%s has no header", path), nil)
		}
		return core.NewDataUnavailable(fmt.Sprintf("read header of %s", path), err)
	}

	t := &table{header: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return core.NewDataUnavailable(fmt.Sprintf("%s is missing required columns %v", path, missing), nil)
	}

	for line := 1; ; line++ {
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return core.NewDataUnavailable(fmt.Sprintf("read %s", path), err)
		}
		fn(t, row)
	}
}
