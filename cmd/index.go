package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-register/internal/config"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the face of one stored photo",
	Long: `Runs the indexing path for one stored object, as a storage notification would:
the key gives the person's names, the face service gives the face identity and
the person record is updated.

Exits non-zero on failure so the caller can retry.`,
	Example: `  face-register index --key dupont_jean.jpg
  face-register index --bucket my-faces --key van_der_berg_marie.png --json`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().String("bucket", "", "Bucket of the object (defaults to the configured bucket)")
	indexCmd.Flags().String("key", "", "Object key, e.g. dupont_jean.jpg")
	indexCmd.Flags().Bool("json", false, "Output as JSON")
}

func runIndex(cmd *cobra.Command, args []string) error {
	key := mustGetString(cmd, "key")
	if key == "" {
		return errors.New("--key is required")
	}
	jsonOutput := mustGetBool(cmd, "json")

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

	bucket := mustGetString(cmd, "bucket")
	if bucket == "" {
		bucket = blobs.Bucket()
	}

	res, err := indexing.Register(ctx, bucket, key)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Record)
	}

	fmt.Printf("Registered %s %s\n", res.Record.Firstname, res.Record.Lastname)
	fmt.Printf("  Key:      %s/%s\n", res.Bucket, res.ObjectKey)
	fmt.Printf("  Identity: %s (%d face(s) detected)\n", res.FaceID, res.Faces)
	return nil
}
