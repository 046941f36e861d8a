package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	_ "github.com/rushteam/movierec/config/builders"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/recommend"
)

const noResultsMessage = "No movies matching your preferences were found."

type recommendFlags struct {
	genres    []string
	directors []string
	num       int
	user      string
	diversity float64
	movies    string
	reviews   string
	redis     string
	blacklist string
	pipeline  string
	expr      string
	workers   int
	asJSON    bool
	noPrompt  bool
}

func newRecommendCmd(a *app) *cobra.Command {
	f := &recommendFlags{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend movies by preferred genres and directors",
		Long: `Recommend movies by preferred genres (max 5) and directors (max 3).

Genres match case- and punctuation-insensitively ("sci-fi" matches "Sci-Fi");
directors must match exactly. Missing preferences are asked interactively
unless --no-prompt is set.

Examples:
  movierec recommend --genres Drama,Crime --directors "Michael Mann" --num 5
  movierec recommend --genres Horror --user alice --diversity 0.5 --json
  movierec recommend --genres Drama --redis localhost:6379
  movierec recommend --genres Drama --redis localhost:6379 --blacklist-key movierec:blacklist`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, a, f)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&f.genres, "genres", nil, "preferred genres, comma separated (max 5)")
	flags.StringSliceVar(&f.directors, "directors", nil, "favorite directors, comma separated (max 3)")
	flags.IntVarP(&f.num, "num", "n", 0, "number of recommendations (default from config: 10)")
	flags.StringVarP(&f.user, "user", "u", "", "user id; makes the random factor reproducible")
	flags.Float64Var(&f.diversity, "diversity", 0, "weight of the random factor in [0,1] (default from config: 0.3)")
	flags.StringVar(&f.movies, "movies", "", "movies CSV path")
	flags.StringVar(&f.reviews, "reviews", "", "critic reviews CSV path")
	flags.StringVar(&f.redis, "redis", "", "read the dataset from redis at this address instead of CSV")
	flags.StringVar(&f.blacklist, "blacklist-key", "", "redis key of a JSON title list to exclude (requires --redis)")
	flags.StringVar(&f.pipeline, "pipeline", "", "custom pipeline config (yaml or json)")
	flags.StringVar(&f.expr, "expr", "", "extra CEL filter expression, e.g. 'item.director != \"\"'")
	flags.IntVar(&f.workers, "workers", 0, "filter workers (default from config)")
	flags.BoolVar(&f.asJSON, "json", false, "print results as JSON")
	flags.BoolVar(&f.noPrompt, "no-prompt", false, "do not ask for missing preferences")
	return cmd
}

func runRecommend(cmd *cobra.Command, a *app, f *recommendFlags) error {
	if err := applyRecommendFlags(cmd, a, f); err != nil {
		return err
	}
	ctx := cmd.Context()

	if !f.noPrompt {
		in := bufio.NewReader(cmd.InOrStdin())
		if len(f.genres) == 0 {
			f.genres = prompt(in, cmd.OutOrStdout(), "Enter your favorite genres separated by comma (max 5): ", core.MaxGenres)
		}
		if len(f.directors) == 0 {
			f.directors = prompt(in, cmd.OutOrStdout(), "Enter your favorite directors separated by comma (max 3): ", core.MaxDirectors)
		}
	}

	opts := recommend.Options{
		PoolMultiplier: a.cfg.Recommend.PoolMultiplier,
		FilterWorkers:  a.cfg.Recommend.FilterWorkers,
		FilterExpr:     f.expr,
		BlacklistKey:   a.cfg.Redis.BlacklistKey,
		Timeout:        a.cfg.Recommend.Timeout,
	}
	if path := a.cfg.Recommend.PipelinePath; path != "" {
		pc, err := loadPipeline(path)
		if err != nil {
			return err
		}
		opts.Pipeline = pc
	}

	src, st, closeSource, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource()
	opts.Store = st

	engine, err := recommend.New(src, a.logger, opts)
	if err != nil {
		return err
	}

	req := recommend.Request{
		UserID:          f.user,
		Genres:          f.genres,
		Directors:       f.directors,
		Count:           a.cfg.Recommend.Count,
		DiversityFactor: a.cfg.Recommend.DiversityFactor,
	}
	res, err := engine.Recommend(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	norm, _ := req.Normalize()
	renderHeader(out, norm)
	renderResult(out, res)
	return nil
}

// applyRecommendFlags 把显式设置的命令行参数覆盖到配置上，并重新校验。
func applyRecommendFlags(cmd *cobra.Command, a *app, f *recommendFlags) error {
	flags := cmd.Flags()
	if flags.Changed("num") {
		a.cfg.Recommend.Count = f.num
	}
	if flags.Changed("diversity") {
		a.cfg.Recommend.DiversityFactor = f.diversity
	}
	if flags.Changed("workers") {
		a.cfg.Recommend.FilterWorkers = f.workers
	}
	if f.movies != "" {
		a.cfg.Dataset.MoviesPath = f.movies
	}
	if f.reviews != "" {
		a.cfg.Dataset.ReviewsPath = f.reviews
	}
	if f.redis != "" {
		a.cfg.Redis.Addr = f.redis
	}
	if f.blacklist != "" {
		a.cfg.Redis.BlacklistKey = f.blacklist
	}
	if f.pipeline != "" {
		a.cfg.Recommend.PipelinePath = f.pipeline
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if a.cfg.Redis.BlacklistKey != "" && a.cfg.Redis.Addr == "" {
		return fmt.Errorf("invalid options: blacklist key %q requires --redis", a.cfg.Redis.BlacklistKey)
	}
	return nil
}

// prompt 读取一行逗号分隔的输入，trim 后截断到 max 个；读不到输入时返回空。
func prompt(in *bufio.Reader, out io.Writer, question string, max int) []string {
	fmt.Fprint(out, question)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return nil
	}
	return core.CleanPreferences(strings.Split(line, ","), max)
}

func loadPipeline(path string) (*pipeline.Config, error) {
	var (
		pc  *pipeline.Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		pc, err = pipeline.LoadFromJSON(path)
	default:
		pc, err = pipeline.LoadFromYAML(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load pipeline %s: %w", path, err)
	}
	return pc, nil
}
