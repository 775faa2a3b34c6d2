package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hostscout/hostscout/pkg/config"
	"github.com/hostscout/hostscout/pkg/logging"
	"github.com/hostscout/hostscout/pkg/paths"
)

const cliExecutable = "hostscout"

type ctxKey string

// configManagerKey carries the loaded configuration manager on the
// command context so subcommands share one view of the configuration.
const configManagerKey ctxKey = "config.manager"

// NewCommand constructs the top-level hostscout CLI command, wiring global
// flags, configuration loading and logger setup.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Hostscout discovers and classifies devices on the local network",
		Long: `Hostscout sweeps local network ranges for live hosts, gathers per-host
facts (open ports, MAC addresses, service banners) and infers each device's
type with a confidence-scored classification.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				configFile = paths.DefaultConfigFile()
			}

			manager := config.NewManager()
			if err := manager.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			cfg := manager.Get()
			level := logging.VerbosityLevel(verbosityCount, cfg.Log.Level)
			if err := logging.Configure(level, cfg.Log.Format); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configManagerKey, manager)

			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}

			log.Debug().Str("level", level).Str("format", cfg.Log.Format).Msg("logger configured")
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "scan", Title: "Scan Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewClassifyCommand())
	cmd.AddCommand(NewVersionCommand(cliExecutable))

	return cmd
}

// managerFromCommand extracts the configuration manager stored by the root
// command's PersistentPreRunE.
func managerFromCommand(cmd *cobra.Command) (*config.Manager, error) {
	ctx := cmd.Context()
	if ctx == nil && cmd.Root() != nil {
		ctx = cmd.Root().Context()
	}
	if ctx == nil {
		return nil, errors.New("command context not initialized")
	}
	manager, ok := ctx.Value(configManagerKey).(*config.Manager)
	if !ok || manager == nil {
		return nil, errors.New("configuration not loaded")
	}
	return manager, nil
}
