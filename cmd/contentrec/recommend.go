package main

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/contentrec/core"
)

type recommendOptions struct {
	users  []string
	limit  int
	save   bool
	asJSON bool
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	opts := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend unseen items for one or more users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, root, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.users, "user", "u", nil, "user id (repeatable)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "max results per user (default scoring.default_limit)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist results (sqlite only)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// userResult 是单个用户的输出。
type userResult struct {
	UserID          string                      `json:"user_id"`
	Recommendations []core.ScoredRecommendation `json:"recommendations"`
	Summary         core.Summary                `json:"summary"`
}

func runRecommend(cmd *cobra.Command, root *rootOptions, opts *recommendOptions) error {
	ctx := cmd.Context()
	a, err := openApp(cmd, root)
	if err != nil {
		return err
	}
	defer a.close()

	limit := opts.limit
	if !cmd.Flags().Changed("limit") {
		limit = a.settings.Scoring.DefaultLimit
	}
	if opts.save && a.sink == nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported,
			fmt.Sprintf("store: driver %q cannot persist recommendations", a.settings.Store.Driver))
	}

	byUser, err := a.engine.RecommendBatch(ctx, opts.users, limit)
	if err != nil {
		return err
	}

	results := make([]userResult, 0, len(opts.users))
	now := time.Now()
	for _, userID := range opts.users {
		recs := byUser[userID]
		if opts.save && len(recs) > 0 {
			if err := a.sink.SaveRecommendations(ctx, core.ToRecommendations(userID, recs, now)); err != nil {
				return fmt.Errorf("save recommendations for %s: %w", userID, err)
			}
		}
		results = append(results, userResult{UserID: userID, Recommendations: recs, Summary: core.Summarize(recs)})
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		printResult(out, r)
	}
	return nil
}

func printResult(w io.Writer, r userResult) {
	fmt.Fprintf(w, "%s: %d recommendation(s)", r.UserID, r.Summary.Total)
	if r.Summary.Total > 0 {
		fmt.Fprintf(w, ", top %.3f, avg %.3f", r.Summary.TopScore, r.Summary.AverageScore)
	}
	fmt.Fprintln(w)
	for i, rec := range r.Recommendations {
		fmt.Fprintf(w, "  %2d. %.3f  %-10s %s\n", i+1, rec.Score, rec.Item.ContentType, rec.Item.Title)
		fmt.Fprintf(w, "      %s\n", rec.Reason)
	}
}
