package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mateusmacedo/go-eventaggregator/internal/config"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/application"
	rootfolderDomain "github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/infrastructure"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure"
	watermillAdapter "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile string
		v          *viper.Viper
	)

	root := &cobra.Command{
		Use:          "rootfolders",
		Short:        "Root folder service backed by an in-process event aggregator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			v = config.New(configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlag("server.address", cmd.Flags().Lookup("addr")); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	serve.Flags().String("addr", ":8080", "HTTP listen address")

	root.AddCommand(serve)
	return root
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Options{
		App:      "rootfolders",
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
	})
	if err != nil {
		return err
	}

	eventBus, err := pkgInfra.NewEventAggregator(appLogger)
	if err != nil {
		return err
	}

	if cfg.Events.Forward {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
		defer pubSub.Close()

		forwarder := watermillAdapter.NewForwarder(pubSub, cfg.Events.TopicPrefix, appLogger)
		if _, err := eventBus.Subscribe(forwarder); err != nil {
			return err
		}
		for _, name := range []string{rootfolderDomain.RootFolderAddedName, rootfolderDomain.RootFolderRemovedName} {
			messages, err := pubSub.Subscribe(ctx, forwarder.Topic(name))
			if err != nil {
				return err
			}
			go logForwarded(ctx, appLogger, messages)
		}
	}

	db, err := infrastructure.OpenDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to open database", err, pkgApp.Fields{"driver": cfg.Database.Driver})
		return err
	}
	repository, err := infrastructure.NewGormRootFolderRepository(db, appLogger)
	if err != nil {
		return err
	}

	slice, err := rootfolder.NewRootFolderSlice(
		ctx,
		eventBus,
		repository,
		infrastructure.OSDiskProvider{},
		infrastructure.StaticSeriesPaths(cfg.Library.SeriesPaths),
		application.Settings{DownloadedEpisodesFolder: cfg.Library.DownloadedEpisodesFolder},
		appLogger,
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(infrastructure.RequestID)
	router.Use(middleware.Recoverer)
	slice.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info(ctx, "server listening", pkgApp.Fields{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkgApp.LogError(ctx, appLogger, "server failed", err, nil)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
