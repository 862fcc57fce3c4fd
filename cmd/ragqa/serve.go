package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/rag-pipeline/api"
	"github.com/fyerfyer/rag-pipeline/api/handler"
	"github.com/fyerfyer/rag-pipeline/pkg/storage"
	"github.com/fyerfyer/rag-pipeline/pkg/taskqueue"
)

type serveOptions struct {
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (and the ingestion worker when the queue is enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.readTimeout, "read-timeout", 5*time.Minute, "HTTP read timeout, uploads of large media need a generous value")
	cmd.Flags().DurationVar(&opts.writeTimeout, "write-timeout", 10*time.Minute, "HTTP write timeout, synchronous ingestion happens inside the request")
	cmd.Flags().DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests on shutdown")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	a, err := root.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	logger := a.logger
	logger.WithField("collection", a.pipeline.Collection()).Info("Starting RAG pipeline server")

	files, err := storage.NewLocalStorage(storage.LocalConfig{Path: cfg.DataDir})
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	docOpts := []handler.DocumentOption{
		handler.WithIngestionRepository(a.repo),
		handler.WithMaxFileSize(cfg.MaxFileSizeBytes()),
	}

	if cfg.Archive.Enable {
		archive, err := storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize archive storage: %w", err)
		}
		docOpts = append(docOpts, handler.WithArchive(archive))
		logger.WithField("bucket", cfg.Archive.Bucket).Info("Upload archive enabled")
	}

	if cfg.Queue.Enable {
		qcfg := taskqueue.DefaultConfig()
		qcfg.RedisAddr = cfg.Queue.RedisAddr
		qcfg.RedisPassword = cfg.Queue.RedisPassword
		qcfg.RedisDB = cfg.Queue.RedisDB
		qcfg.Concurrency = cfg.Queue.Concurrency

		queue, err := taskqueue.NewRedisQueue(qcfg, taskqueue.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer queue.Close()

		worker := taskqueue.NewRedisWorker(queue)
		worker.RegisterHandler(taskqueue.NewIngestHandler(a.pipeline, logger))
		if err := worker.Start(); err != nil {
			return fmt.Errorf("failed to start ingestion worker: %w", err)
		}
		defer worker.Stop()

		docOpts = append(docOpts, handler.WithQueue(queue))
		logger.WithField("redis", cfg.Queue.RedisAddr).Info("Task queue initialized successfully")
	}

	router := api.SetupRouter(api.Handlers{
		Documents: handler.NewDocumentHandler(a.pipeline, files, docOpts...),
		QA:        handler.NewQAHandler(a.pipeline),
		System:    handler.NewSystemHandler(a.pipeline, cfg.MaxFileSizeMB, cfg.Queue.Enable),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  opts.readTimeout,
		WriteTimeout: opts.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
