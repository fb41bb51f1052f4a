package commands

import (
	"eduverse/config"
	"eduverse/database"

	"github.com/spf13/cobra"
)

// NewMigrateCmd applies the schema and exits.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(*configPath)
			db, err := database.ConnectDb(cfg)
			if err != nil {
				return err
			}
			return database.RunMigrations(db)
		},
	}
}
