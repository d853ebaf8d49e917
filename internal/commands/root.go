// Package commands contains the shapegen CLI command definitions.
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "shapegen",
		Short:         "Generate Go types, builders and JSON deserializers from a shape model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log generation progress at debug level")

	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newClassifyCmd(opts))

	return rootCmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
