package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/filter"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		movies, reviews, redisAddr string
		blacklistKey               string
		blacklist                  []string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the CSV dataset into redis",
		Long: `Import reads the movie catalog and critic reviews CSV files and writes them to
redis in the layout read by "movierec recommend --redis".
With --blacklist the titles are stored under --blacklist-key and excluded by
"movierec recommend --blacklist-key".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if movies != "" {
				a.cfg.Dataset.MoviesPath = movies
			}
			if reviews != "" {
				a.cfg.Dataset.ReviewsPath = reviews
			}
			if redisAddr != "" {
				a.cfg.Redis.Addr = redisAddr
			}
			if blacklistKey != "" {
				a.cfg.Redis.BlacklistKey = blacklistKey
			}
			if a.cfg.Redis.Addr == "" {
				return fmt.Errorf("redis address is required (--redis or MOVIEREC_REDIS_ADDR)")
			}
			if cmd.Flags().Changed("blacklist") && a.cfg.Redis.BlacklistKey == "" {
				return fmt.Errorf("--blacklist requires --blacklist-key or MOVIEREC_REDIS_BLACKLIST_KEY")
			}

			src := &dataset.CSVSource{MoviesPath: a.cfg.Dataset.MoviesPath, ReviewsPath: a.cfg.Dataset.ReviewsPath}
			snap, err := dataset.Prefetch(ctx, src)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}
			if snap.ReviewsErr != nil {
				a.logger.Warn().Err(snap.ReviewsErr).Msg("critic reviews unavailable, importing movies only")
			}

			st, err := a.openRedis(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := dataset.Publish(ctx, st, a.cfg.Redis.MoviesKey, a.cfg.Redis.ReviewsKey, snap.MovieRows, snap.ReviewRows)
			if err != nil {
				return fmt.Errorf("publish dataset: %w", err)
			}
			if cmd.Flags().Changed("blacklist") {
				if err := filter.SaveBlacklist(ctx, st, a.cfg.Redis.BlacklistKey, blacklist); err != nil {
					return err
				}
				a.logger.Info().
					Int("titles", len(blacklist)).
					Str("key", a.cfg.Redis.BlacklistKey).
					Msg("blacklist imported")
			}
			a.logger.Info().
				Int("movies", n).
				Int("reviews", len(snap.ReviewRows)).
				Str("redis", a.cfg.Redis.Addr).
				Msg("dataset imported")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies and %d reviews\n", n, len(snap.ReviewRows))
			return nil
		},
	}
	cmd.Flags().StringVar(&movies, "movies", "", "movies CSV path")
	cmd.Flags().StringVar(&reviews, "reviews", "", "critic reviews CSV path")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address")
	cmd.Flags().StringVar(&blacklistKey, "blacklist-key", "", "redis key for the title blacklist")
	cmd.Flags().StringSliceVar(&blacklist, "blacklist", nil, "titles to exclude from recommendations, comma separated")
	return cmd
}
