package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mindwell/supportchat/internal/adapters/backend"
	httpadapter "github.com/mindwell/supportchat/internal/adapters/http"
	"github.com/mindwell/supportchat/internal/app/chatsession"
	"github.com/mindwell/supportchat/internal/config"
	"github.com/mindwell/supportchat/internal/domain"
	"github.com/mindwell/supportchat/internal/observability"
)

func main() {
	root := &cobra.Command{
		Use:   "supportchat",
		Short: "Support chat session orchestrator for the MindWell front end",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := observability.Logger()

	var backendClient domain.BackendClient
	if cfg.UseMockBackend {
		log.Infow("using mock backend")
		backendClient = backend.NewMock()
	} else {
		log.Infow("using live backend", "base_url", cfg.BackendBaseURL)
		backendClient = backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	}

	manager := chatsession.NewManager(func() *chatsession.Controller {
		return chatsession.NewController(backendClient)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpadapter.NewRouter(manager),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("supportchat API listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Infow("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
