package cmd

import (
	"context"

	"github.com/spf13/cobra"

	mongoInfra "github.com/fastygo/timetracker/internal/infrastructure/mongo"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Mongo.ConnectTimeout+cfg.Mongo.ServerSelectionTimeout)
		defer cancel()

		client, err := mongoInfra.NewClient(ctx, cfg.Mongo, log)
		if err != nil {
			return err
		}
		defer mongoInfra.Close(context.Background(), client, log)

		cfg.Migrations.Enabled = true
		return mongoInfra.RunMigrations(client, cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
