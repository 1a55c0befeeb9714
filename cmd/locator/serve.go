package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/locator/introspect"
	"github.com/kbukum/locator/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the introspection endpoints over HTTP",
	Long: `Compose the container and serve its registrations, health and
validation endpoints until interrupted.

Endpoints:
  GET  /registrations
  GET  /health
  POST /validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: serveAddr,
			Handler: introspect.NewRouter(app.Container,
				introspect.WithServiceName(app.Name),
				introspect.WithVersion(app.Version),
				introspect.WithLogger(app.Logger),
			),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		log := app.Logger.WithComponent("server")

		app.OnReady(func(ctx context.Context) error {
			listener, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("server failed to bind %s: %w", srv.Addr, err)
			}
			go func() {
				if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
					log.Error("Server error", logger.ErrorFields("serve", err))
				}
			}()
			log.Info("HTTP server started", map[string]interface{}{"addr": srv.Addr})
			return nil
		})
		app.OnStop(func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown error: %w", err)
			}
			log.Info("HTTP server shut down successfully")
			return nil
		})

		return app.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}
