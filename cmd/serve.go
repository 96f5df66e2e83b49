package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/constants"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/metrics"
	"github.com/kozaktomas/face-register/internal/registration"
	"github.com/kozaktomas/face-register/internal/storage"
	"github.com/kozaktomas/face-register/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Face Register web server.
It serves the upload form and the faces gallery, the JSON API and the storage
event endpoint that triggers face indexing.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
	serveCmd.Flags().Bool("index-on-upload", true,
		"With the local storage backend, index every stored photo as a bucket notification would")
}

// resolveServeHostPort applies flag overrides on top of the loaded config.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}
}

// emulateNotifications runs the indexing path after every local Put, in the
// background, like a bucket notification delivered to /api/events/storage.
func emulateNotifications(blobs *storage.LocalStore, indexing *registration.IndexingOrchestrator, log *logger.Logger) {
	blobs.OnPut = func(bucket, key string) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.IndexTimeout)
			defer cancel()
			if _, err := indexing.Register(ctx, bucket, key); err != nil {
				log.Warn("Local indexing failed", "key", key, "kind", registration.KindOf(err))
			}
		}()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	blobs, closeBlobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}
	defer closeBlobs()

	log.Info("Connecting to person store")
	persons, err := openPersonStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer persons.Close()

	log.Info("Connecting to face collection", "collection", cfg.Collection.ID)
	indexing, closeIndexing, err := newIndexing(ctx, cfg, blobs, log, m)
	if err != nil {
		return err
	}
	defer closeIndexing()

	if local, ok := blobs.(*storage.LocalStore); ok && mustGetBool(cmd, "index-on-upload") {
		emulateNotifications(local, indexing, log)
		log.Info("Local storage notifications enabled", "dir", cfg.Storage.Dir)
	}

	server, err := web.NewServer(cfg, web.Deps{
		Upload:   registration.NewUploadOrchestrator(blobs, persons, log, m),
		Indexing: indexing,
		Persons:  persons,
		Bucket:   blobs.Bucket(),
		Gatherer: reg,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown", "error", err)
		}
	}()

	fmt.Printf("Starting Face Register on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
