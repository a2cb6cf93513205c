package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/config"
	"github.com/abhisek/weirdtraffic/internal/logging"
	"github.com/abhisek/weirdtraffic/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the stand-in image generation and detection backend",
	Long:  "Serve POST /generate and POST /detect backed by the synthetic models, so the game can be played over HTTP without real models.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		log := logging.New(os.Stderr, cfg.Log.Level)

		// serve always answers with the synthetic models; backend.kind
		// selects what the game talks to, which is usually this server.
		synth := backend.NewSynthetic(cfg.Backend.Synthetic)
		srv := server.New(
			backend.WithGenerateLogging(synth, log),
			backend.WithDetectLogging(synth, log),
			server.WithLogger(log),
			server.WithRateLimit(cfg.Serve.Rate, cfg.Serve.Burst),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().
			Str("addr", cfg.Serve.Addr).
			Int("images", cfg.Backend.Synthetic.Images).
			Dur("delay", cfg.Backend.Synthetic.Delay).
			Msg("serving stand-in backend")

		if err := srv.ListenAndServe(ctx, cfg.Serve.Addr); err != nil && ctx.Err() == nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8787", "Listen address")
	serveCmd.Flags().Float64("rate", 5, "Requests per second across all clients (0 disables limiting)")
	serveCmd.Flags().Int("burst", 10, "Burst size for the rate limiter")
	bindFlags(serveCmd, map[string]string{
		"serve.addr":  "addr",
		"serve.rate":  "rate",
		"serve.burst": "burst",
	})
}
