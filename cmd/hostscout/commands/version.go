package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostscout/hostscout/cmd/hostscout/internal/format"
	"github.com/hostscout/hostscout/pkg/version"
)

// NewVersionCommand prints version metadata for the named executable.
func NewVersionCommand(executable string) *cobra.Command {
	var (
		short        bool
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print " + executable + " version information",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := format.ParseMode(outputFormat)
			if err != nil {
				return err
			}
			out := format.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, false, true)

			if mode != format.ModeText {
				return out.PrintStructured(version.Get())
			}
			if short {
				return out.PrintLine(version.Version)
			}
			return out.PrintLine(version.Info())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")

	return cmd
}
