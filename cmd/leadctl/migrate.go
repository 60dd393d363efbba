package main

import (
	"context"
	"errors"
	"time"

	"nasu-match/internal/database/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, log, err := openContainer()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		if c.DB == nil {
			return errors.New("migrate requires STORE_DRIVER=postgres")
		}

		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if err := (migration.Runner{Logger: log.Named("migration")}).Run(ctx, c.DB.SQLDB()); err != nil {
			return err
		}
		log.Info("migrations applied", zap.String("db", c.Config.Database.DBName))
		return nil
	},
}

func init() {
	migrateCmd.Flags().Duration("timeout", 2*time.Minute, "overall migration timeout")
	rootCmd.AddCommand(migrateCmd)
}
