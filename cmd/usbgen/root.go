package main

import (
	"github.com/spf13/cobra"

	"github.com/ardnew/usbdesc/pkg"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "usbgen",
		Short: "Generate USB descriptor tables",
		Long: `usbgen builds USB descriptor hierarchies from TOML or YAML definitions
and renders them as annotated text, a C array, a hex dump or raw bytes.

Each definition lists descriptors by kind; containers (configuration,
interface, iad, bos, vc_header) carry their children, and every length,
total size and child count is computed from the tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := pkg.ParseLogLevel(flags.logLevel)
			if err != nil {
				return err
			}
			format, err := pkg.ParseLogFormat(flags.logFormat)
			if err != nil {
				return err
			}
			pkg.SetLogLevel(level)
			pkg.SetLogOutput(cmd.ErrOrStderr())
			pkg.SetLogFormat(format)
			pkg.LogDebug(pkg.ComponentCLI, "logging configured", "level", level.String(), "command", cmd.Name())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format: text|json")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newKindsCmd())
	return cmd
}
