package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/weirdtraffic/internal/config"
	"github.com/abhisek/weirdtraffic/internal/llm"
	"github.com/abhisek/weirdtraffic/internal/logging"
	"github.com/abhisek/weirdtraffic/internal/wordbank"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Print the mini-game word bank as JSON",
	Long:  "Print the word bank used by the slot machine, clap words and fill in the blank games. With --refresh an LLM writes fresh lists first; save the output and pass it to play with --words.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		log := logging.New(os.Stderr, cfg.Log.Level)

		bank, source, err := loadWords(cmd, cfg, log)
		if err != nil {
			return err
		}
		log.Debug().Str("source", source).Msg("word bank loaded")

		out := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()
			out = f
		}
		return bank.WriteJSON(out)
	},
}

func init() {
	addWordFlags(wordsCmd)
	wordsCmd.Flags().StringP("out", "o", "", "Write the word bank to a file instead of stdout")
}

func addWordFlags(cmd *cobra.Command) {
	cmd.Flags().String("words", "", "JSON word bank overriding the built-in lists")
	cmd.Flags().Bool("refresh-words", false, "Ask the configured LLM for fresh word lists")
}

// loadWords builds the word bank from the built-in lists, an optional file
// and an optional LLM refresh. A failed refresh keeps the lists it had.
func loadWords(cmd *cobra.Command, cfg config.Config, log zerolog.Logger) (wordbank.Bank, string, error) {
	bank, source := wordbank.Default(), "built-in"

	if path, _ := cmd.Flags().GetString("words"); path != "" {
		b, err := wordbank.LoadFile(path)
		if err != nil {
			return wordbank.Bank{}, "", err
		}
		bank, source = b, path
	}

	refresh, _ := cmd.Flags().GetBool("refresh-words")
	if !refresh {
		return bank, source, nil
	}

	lc := cfg.LLM
	if !lc.Discover(os.Getenv) {
		log.Warn().Msg("no LLM provider configured, keeping word lists")
		return bank, source, nil
	}

	ctx := cmd.Context()
	if lc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lc.Timeout)
		defer cancel()
	}

	provider, err := llm.NewProvider(ctx, lc, log)
	if err != nil {
		log.Warn().Err(err).Msg("LLM provider unavailable, keeping word lists")
		return bank, source, nil
	}
	fresh, err := wordbank.Refresh(ctx, provider, bank, log)
	if err != nil {
		return bank, source, nil
	}
	return fresh, provider.ModelID(), nil
}
