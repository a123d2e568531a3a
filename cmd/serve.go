package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/cache"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/log"
	"github.com/squidlr/squidlr/network"
	"github.com/squidlr/squidlr/provider"
	"github.com/squidlr/squidlr/resolver"
	"github.com/squidlr/squidlr/server"
	"github.com/squidlr/squidlr/stream"
	"github.com/squidlr/squidlr/telemetry"
)

const collectInterval = time.Minute

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))

	serveCmd.Flags().String("cache", "", "Cache backend (memory, redis, file)")
	lo.Must0(viper.BindPFlag(key.CacheBackend, serveCmd.Flags().Lookup("cache")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content and video API over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(serve(cmd.Context()))
	},
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.WithError(err).Warn("shutdown tracer")
		}
	}()

	p, release, err := provider.FromConfig()
	if err != nil {
		return err
	}
	defer release()

	if memory, ok := p.Cache().(*cache.Memory); ok {
		go memory.CollectGarbage(ctx, collectInterval)
	}

	api := server.New(
		resolver.Default(),
		p,
		stream.FromConfig(network.Client),
		viper.GetStringSlice(key.ServerCorsOrigins),
	)

	srv := &http.Server{
		Addr:              viper.GetString(key.ServerAddress),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.WithField("address", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	timeout := time.Duration(viper.GetInt(key.ServerShutdownTimeout)) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
