package cmd

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/registration"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Index every stored photo",
	Long: `Runs the indexing path for every object in the bucket, one at a time.
Records left without a face identity (for example after a failed notification)
are repaired this way. Failures are reported and counted, not retried.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)

	reindexCmd.Flags().String("prefix", "", "Only index keys starting with this prefix")
	reindexCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	blobs, closeBlobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}
	defer closeBlobs()

	indexing, closeIndexing, err := newIndexing(ctx, cfg, blobs, log, nil)
	if err != nil {
		return err
	}
	defer closeIndexing()

	keys, err := blobs.List(ctx, mustGetString(cmd, "prefix"))
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("No objects found.")
		return nil
	}

	var bar *progressbar.ProgressBar
	if !mustGetBool(cmd, "no-progress") {
		bar = progressbar.NewOptions(len(keys),
			progressbar.OptionSetDescription("Indexing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	failures := make(map[registration.Kind]int)
	failed := 0
	for _, key := range keys {
		if _, err := indexing.Register(ctx, blobs.Bucket(), key); err != nil {
			failures[registration.KindOf(err)]++
			failed++
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	fmt.Printf("Indexed %d of %d photos\n", len(keys)-failed, len(keys))
	for kind, n := range failures {
		fmt.Printf("  %s: %d\n", kind, n)
	}
	if failed > 0 {
		return fmt.Errorf("%d photos failed to index", failed)
	}
	return nil
}
