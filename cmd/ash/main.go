package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keshon/ash/internal/config"
)

const appName = "ash"

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msgf("%s stopped", appName)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     appName + " [config.toml]",
		Short:   "Markov chatter bot for XMPP group chats",
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStatsCmd())
	return root
}

// loadConfig reads the file named on the command line, or the first
// default location that exists.
func loadConfig(args []string) (*config.Config, error) {
	if len(args) == 1 {
		return config.Load(args[0])
	}
	cfg, err := config.Discover()
	if err != nil {
		log.Error().Err(err).Strs("searched", config.Candidates()).Msg("no config file")
		return nil, err
	}
	return cfg, nil
}
