package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/notestream/notestream/internal/api"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes the generation pipeline over a JSON HTTP API:
summary, notes, and quiz generation, PDF export, and notes-grounded
chat. Clients supply the model credential per request via the
X-API-Key header.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.ListenAddr
	}

	server, err := api.NewServer(api.ServerConfig{
		Logger:      a.logger,
		Generator:   a.generator,
		Chat:        a.chat,
		CORSOrigins: a.cfg.CORSOrigins,
		TrustProxy:  a.cfg.TrustProxy,
		RateRPS:     a.cfg.RateLimitRPS,
		RateBurst:   a.cfg.RateLimitBurst,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("HTTP server ready", "addr", addr, "api", "/api/v1/*", "health", "/health")
	return server.Run(ctx, addr, a.logger)
}
