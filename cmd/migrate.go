package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/database/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  `Applies the embedded migrations to the person store and to the face collection.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("skip-collection", false, "Only migrate the person store")
}

func printApplied(store string, applied []string) {
	if len(applied) == 0 {
		fmt.Printf("%s: up to date\n", store)
		return
	}
	for _, name := range applied {
		fmt.Printf("%s: applied %s\n", store, name)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	repo, err := openPersonStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	applied, err := repo.Pool().Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate person store: %w", err)
	}
	printApplied("persons", applied)

	if mustGetBool(cmd, "skip-collection") {
		return nil
	}

	pool, err := postgres.NewPool(ctx, &cfg.Collection)
	if err != nil {
		return fmt.Errorf("failed to open face collection: %w", err)
	}
	defer pool.Close()

	applied, err = pool.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate face collection: %w", err)
	}
	printApplied("collection", applied)

	return nil
}
