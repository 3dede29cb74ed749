package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Goden-Gun/errdisplay/pkg/bootstrap"
	"github.com/Goden-Gun/errdisplay/pkg/classify"
	"github.com/Goden-Gun/errdisplay/pkg/codes"
	"github.com/Goden-Gun/errdisplay/pkg/envelope"
)

// app carries state shared by subcommands once the root pre-run has loaded config.
type app struct {
	cfg *serviceConfig
}

func newRootCmd(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "errdisplay",
		Short:         "Recode API and validation errors into user-facing messages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := loadServiceConfig(path)
			if err != nil {
				return err
			}
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				cfg.Log.Level = level
			}
			if lookup, _ := cmd.Flags().GetString("lookup"); lookup != "" {
				cfg.Lookup.Source = "file"
				cfg.Lookup.Path = lookup
			}
			a.cfg = cfg
			return bootstrap.InitLoggerWithOptions(cfg.Log, loggerOptions(cmd, cfg))
		},
	}

	root.PersistentFlags().String("config", "", "Path to a config file (default: configs/config_$APP_ENV.yaml if present)")
	root.PersistentFlags().String("log-level", "", "Override log level")
	root.PersistentFlags().String("lookup", "", "Load the lookup table from this JSON or YAML file")

	root.AddCommand(
		newClassifyCmd(a),
		newCodesCmd(a),
		newServeCmd(a),
	)
	return root
}

// table loads the lookup table for commands that do not need Redis.
func (a *app) table(ctx context.Context) (*codes.Table, error) {
	return bootstrap.InitLookup(ctx, a.cfg.Lookup, nil)
}

func (a *app) decoder() envelope.Decoder {
	return envelope.Decoder{NamedPrefixes: a.cfg.Lookup.NamedPrefixes}
}

func (a *app) classifier() classify.Classifier {
	c := classify.Classifier{}
	if a.cfg.Lookup.SupportHref != "" {
		c.SupportLink = classify.DefaultSupportLink
		c.SupportLink.Href = a.cfg.Lookup.SupportHref
		if a.cfg.Lookup.SupportLabel != "" {
			c.SupportLink.DefaultMessage = a.cfg.Lookup.SupportLabel
		}
	}
	return c
}

// loggerOptions tags serve logs with the container id; the local commands
// stay untagged.
func loggerOptions(cmd *cobra.Command, cfg *serviceConfig) bootstrap.LoggerOptions {
	return bootstrap.LoggerOptions{
		ServiceName:      cfg.App.Name,
		AddContainerHook: cmd.Name() == "serve",
		Stdout:           cmd.ErrOrStderr(),
	}
}
