package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/weirdtraffic/internal/config"
)

// v holds the merged settings. Flags are bound to it before any command runs.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "weirdtraffic",
	Short: "Teach a detector what weird traffic looks like",
	Long:  "WeirdTraffic: a terminal game where you describe strange road scenes, pick the picture that fits and see whether the detector can match it back.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.ReadFile(v, v.GetString("config"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (yaml, toml or env)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Log file for the game (default $XDG_STATE_HOME/weirdtraffic/weirdtraffic.log)")
	pf.String("backend", "", "Backend kind: synthetic, http or openai")
	pf.String("backend-url", "", "Base URL of an http backend")

	bindFlags(rootCmd, map[string]string{
		"config":       "config",
		"log.level":    "log-level",
		"log.file":     "log-file",
		"backend.kind": "backend",
		"backend.url":  "backend-url",
	})

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags binds viper keys to flags of cmd so that a flag given on the
// command line wins over env, file and defaults.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			panic(fmt.Sprintf("binding --%s to %s: %v", name, key, err))
		}
	}
}
