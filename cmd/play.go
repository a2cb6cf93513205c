package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/weirdtraffic/internal/app"
	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/config"
	"github.com/abhisek/weirdtraffic/internal/logging"
	"github.com/abhisek/weirdtraffic/internal/screen"
	"github.com/abhisek/weirdtraffic/internal/screens/game"
	"github.com/abhisek/weirdtraffic/internal/screens/home"
	"github.com/abhisek/weirdtraffic/internal/screens/welcome"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the game",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	addWordFlags(playCmd)
	addWordFlags(rootCmd)
}

// runPlay loads the configuration, builds the backend and launches the TUI.
// Logs go to a file since the terminal belongs to the UI.
func runPlay(cmd *cobra.Command) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	gen, det, err := backend.New(cfg.Backend, log)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	words, source, err := loadWords(cmd, cfg, log)
	if err != nil {
		return err
	}
	log.Info().
		Str("backend", string(cfg.Backend.Kind)).
		Str("words", source).
		Msg("starting game")

	newGame := func() screen.Screen {
		return game.New(gen, det, game.Options{
			ModalThreshold: cfg.Game.ModalThreshold,
			ModalDelay:     cfg.Game.ModalDelay,
			StageDelay:     cfg.Game.StageDelay,
			CharDelay:      cfg.Game.CharDelay,
			MaxScore:       cfg.Game.MaxScore,
			MaxIncrement:   cfg.Game.MaxIncrement,
			Words:          words,
			Log:            log,
		})
	}

	homeScreen := home.New(home.Stats{
		Backend:      string(cfg.Backend.Kind),
		Words:        source,
		MaxScore:     cfg.Game.MaxScore,
		MaxIncrement: cfg.Game.MaxIncrement,
	}, newGame)

	return app.Run(welcome.New(func() screen.Screen { return homeScreen }), log)
}
