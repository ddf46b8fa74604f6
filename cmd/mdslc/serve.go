package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pacedproton/mdslc/internal/server"
)

var (
	serveAddr      string
	serveJWTSecret string
	serveNoAuth    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides mdslc.yml)")
	serveCmd.Flags().StringVar(&serveJWTSecret, "jwt-secret", "", "secret used to sign and verify bearer tokens (overrides mdslc.yml)")
	serveCmd.Flags().BoolVar(&serveNoAuth, "no-auth", false, "disable bearer-token auth (local development only)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MDSL compile server",
	Long:  "Start an HTTP server exposing a compile endpoint, a websocket diagnostics stream, and cached compiled results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := loadServerConfig()
		if err != nil {
			return err
		}

		cfg := server.DefaultConfig()
		cfg.Addr = fileCfg.Addr
		cfg.JWTSecret = fileCfg.JWTSecret
		cfg.TokenTTL = fileCfg.tokenTTL()
		cfg.RequireAuth = fileCfg.RequireAuth

		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if serveJWTSecret != "" {
			cfg.JWTSecret = serveJWTSecret
		}
		if serveNoAuth {
			cfg.RequireAuth = false
		}
		if cfg.RequireAuth && cfg.JWTSecret == "" {
			return fmt.Errorf("jwt secret required when auth is enabled; pass --jwt-secret or set MDSLC_JWT_SECRET, or run with --no-auth")
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()
		cfg.Logger = logger

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(ctx, cfg)
		logger.Info("mdslc: serving", zap.String("addr", cfg.Addr), zap.Bool("auth_required", cfg.RequireAuth))
		return srv.Start(ctx)
	},
}
