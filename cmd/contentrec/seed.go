package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the sample catalog (users alice, bob and carol)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if a.settings.Store.Driver != "memory" {
				if err := a.seed(cmd.Context(), time.Now()); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}
			a.logger.Info().Str("driver", a.settings.Store.Driver).Msg("sample catalog written")
			return nil
		},
	}
}
