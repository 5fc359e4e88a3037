package main

import "github.com/spf13/cobra"

// rootOptions 是所有子命令共享的全局参数。
type rootOptions struct {
	configPath string
	dbPath     string
	driver     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "contentrec",
		Short: "content recommendation scoring engine",
		Long: `contentrec - explainable content recommendations
  - builds an interest profile from a user's saved items
  - scores unseen catalog items by tag, type, category, popularity and recency`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML settings file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides store.sqlite_path)")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "store driver: sqlite, redis or memory (overrides store.driver)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides log.level)")

	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newProfileCmd(opts))
	return cmd
}
