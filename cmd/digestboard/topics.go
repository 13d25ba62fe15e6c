package main

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/digestboard/internal/filter"
	"github.com/mohammad-safakhou/digestboard/internal/pipeline"
	"github.com/spf13/cobra"
)

func topicsCMD(cfgPath *string) *cobra.Command {
	var (
		start, end         string
		crit               filter.Criteria
		scoreMin, scoreMax float64
		noSort             bool
	)
	var topics = &cobra.Command{
		Use:   "topics",
		Short: "Fetch, filter and list topics for a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			w, err := windowFlags(start, end, a.cfg.Pipeline.DefaultWindow, time.Now())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			res, err := pipeline.New(a.remote, a.logger).Run(ctx, w)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			read, err := a.flags.Read.All(ctx)
			if err != nil {
				printWarning(cmd.ErrOrStderr(), "read flags unavailable: %v", err)
			}
			fav, err := a.flags.Favorite.All(ctx)
			if err != nil {
				printWarning(cmd.ErrOrStderr(), "favorite flags unavailable: %v", err)
			}

			if cmd.Flags().Changed("score-min") || cmd.Flags().Changed("score-max") {
				lo, hi := scoreMin, scoreMax
				crit.ScoreMin, crit.ScoreMax = &lo, &hi
			}
			crit.SortByInterest = !noSort
			page := filter.View(res.Topics, crit, filter.Flags{Read: read, Favorite: fav}, res.Scores)
			return renderTopics(out, page)
		},
	}
	f := topics.Flags()
	f.StringVar(&start, "start", "", "window start (epoch ms, YYYY-MM-DD or RFC3339; default now-pipeline.default_window)")
	f.StringVar(&end, "end", "", "window end (default now+pipeline.default_window)")
	f.StringVarP(&crit.Query, "q", "q", "", "search title, detail, contributors, group and session")
	f.BoolVar(&crit.UnreadOnly, "unread", false, "only unread topics")
	f.BoolVar(&crit.FavoritesOnly, "favorites", false, "only favorite topics")
	f.Float64Var(&scoreMin, "score-min", -1, "minimum interest score (unscored topics always pass)")
	f.Float64Var(&scoreMax, "score-max", 1, "maximum interest score")
	f.BoolVar(&noSort, "no-sort", false, "keep session order instead of sorting by interest")
	f.IntVar(&crit.Page, "page", 1, "page number")
	f.IntVar(&crit.PageSize, "page-size", filter.DefaultPageSize, "topics per page (3-12)")
	return topics
}
