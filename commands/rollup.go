package commands

import (
	"eduverse/catalog"
	"eduverse/config"
	"eduverse/database"
	"eduverse/utils"
	"time"

	"github.com/spf13/cobra"
)

// NewRollupSalesCmd recomputes the rolling sales windows once, for use from
// an external scheduler instead of the in-process cron.
func NewRollupSalesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rollup-sales",
		Short: "Recompute last month, six month and year sales counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(*configPath)
			db, err := database.ConnectDb(cfg)
			if err != nil {
				return err
			}

			started := time.Now()
			rollup := &catalog.WindowRollup{DB: db}
			if err := rollup.Run(cmd.Context()); err != nil {
				return err
			}
			utils.LogScheduler("Sales window rollup finished in %s", time.Since(started))
			return nil
		},
	}
}
