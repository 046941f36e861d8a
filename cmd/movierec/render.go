package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rushteam/movierec/recommend"
)

const genresColumnWidth = 40

func renderHeader(out io.Writer, req recommend.Request) {
	fmt.Fprintln(out, "\n=== Movie Recommendation System ===")
	fmt.Fprintf(out, "Genres: %s\n", strings.Join(req.Genres, ", "))
	fmt.Fprintf(out, "Directors: %s\n", strings.Join(req.Directors, ", "))
	fmt.Fprintf(out, "Number of recommendations: %d\n\n", req.Count)
}

// renderResult 以表格输出推荐结果；空结果输出提示语。
func renderResult(out io.Writer, res *recommend.Result) {
	if len(res.Movies) == 0 {
		fmt.Fprintln(out, noResultsMessage)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: genresColumnWidth},
	})
	t.AppendHeader(table.Row{"#", "Title", "Director", "Genres", "Tomatometer", "Critic score"})
	for i, m := range res.Movies {
		tomatometer := "N/A"
		if m.Tomatometer != nil {
			tomatometer = strconv.FormatFloat(*m.Tomatometer, 'f', -1, 64) + "%"
		}
		t.AppendRow(table.Row{
			i + 1,
			m.Title,
			m.Director,
			m.Genres,
			tomatometer,
			strconv.FormatFloat(m.CriticScore(), 'f', -1, 64) + "/10",
		})
	}
	t.AppendFooter(table.Row{"Total", len(res.Movies)})

	fmt.Fprintln(out, "=== Recommended Movies ===")
	t.Render()
	if res.Diagnostic != "" {
		fmt.Fprintf(out, "Note: %s\n", res.Diagnostic)
	}
}
