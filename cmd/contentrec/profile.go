package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newProfileCmd(root *rootOptions) *cobra.Command {
	var (
		userID string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user's interest profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.engine.Profile(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			fmt.Fprintf(out, "%s: %d item(s)\n", userID, p.TotalItems)
			printWeights(out, "tags", p.TagWeights)
			types := make(map[string]float64, len(p.TypeWeights))
			for ct, w := range p.TypeWeights {
				types[string(ct)] = w
			}
			printWeights(out, "types", types)
			printWeights(out, "categories", p.CategoryWeights)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printWeights(w io.Writer, title string, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintf(w, "  %s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "    %-20s %.3f\n", k, m[k])
	}
}
