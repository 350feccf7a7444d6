package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/askiada/go-slaprint/internal/logging"
	"github.com/askiada/go-slaprint/pkg/config"
)

type rootOptions struct {
	configPath string
	overrides  []string
	logLevel   string
}

func (o *rootOptions) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func (o *rootOptions) config() (config.Config, error) {
	return config.Load(o.configPath, o.overrides...)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "slaprint",
		Short:         "slaprint turns models into resin printer layers",
		Long:          `slaprint slices models, generates their supports and rasterizes every layer for a resin printer display.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML print configuration")
	cmd.PersistentFlags().StringArrayVar(&opts.overrides, "set", nil, "configuration override as key=value, e.g. pad.enabled=false")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	cmd.AddCommand(newSliceCmd(opts), newGraphCmd(), newFlowCmd(opts))
	return cmd
}
