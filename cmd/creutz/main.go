// Command creutz runs Creutz demon simulations of the 2D Ising model, writes
// their results and serves stored runs over HTTP.
package main

import (
	"fmt"
	"os"

	"creutz/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries state shared by the subcommands.
type cli struct {
	v          *viper.Viper
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "creutz: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}
	defaults := config.Defaults()

	root := &cobra.Command{
		Use:   "creutz",
		Short: "Creutz demon microcanonical simulation of the 2D Ising model",
		Long: `Runs one simulation per initial demon energy on a periodic Ising lattice,
estimates the temperature from the demon energy histogram and records the
mean magnetization of each run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file")
	root.PersistentFlags().String("log-level", defaults.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(c.newRunCmd(), c.newServeCmd(), c.newParamsCmd())
	return root
}

// settings resolves the layered configuration for cmd and builds its logger.
func (c *cli) settings(cmd *cobra.Command) (config.Settings, *logrus.Logger, error) {
	if err := config.BindFlags(c.v, cmd.Flags()); err != nil {
		return config.Settings{}, nil, err
	}
	s, err := config.Load(c.v, c.configPath)
	if err != nil {
		return config.Settings{}, nil, err
	}
	log, err := config.NewLogger(s.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return config.Settings{}, nil, err
	}
	return s, log, nil
}
