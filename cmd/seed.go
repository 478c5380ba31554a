package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"logistics/config"
	"logistics/infra/store"
	"logistics/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo fleet into the vehicle store",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("seed")

	switch cfg.Database.Backend {
	case "sqlite":
		db, err := store.NewSQLite(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				log.Errorf("store close: %v", cerr)
			}
		}()
		return store.SeedDemoFleet(context.Background(), db, log)
	case "postgres":
		db, err := store.NewPostgres(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				log.Errorf("store close: %v", cerr)
			}
		}()
		return store.SeedDemoFleet(context.Background(), db, log)
	default:
		return fmt.Errorf("seeding requires a persistent backend, got %s", cfg.Database.Backend)
	}
}
