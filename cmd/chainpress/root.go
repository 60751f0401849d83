package main

import (
	"chainpress/internal/app"
	"chainpress/internal/domain/config"
	"chainpress/internal/logging"
	"encoding/json"
	"github.com/spf13/cobra"
	"io"
)

type rootOptions struct {
	configPath string
	envPath    string
	root       string
	strict     bool
	cache      bool
	logLevel   string

	app *app.App
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "chainpress",
		Short:         "Query the markdown content of a blockchain learning site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if o.app == nil {
				return nil
			}
			return o.app.Close()
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "chainpress.yaml", "configuration file")
	f.StringVar(&o.envPath, "env", ".env", "dotenv file loaded before the configuration")
	f.StringVar(&o.root, "root", "", "content root (overrides content.root)")
	f.BoolVar(&o.strict, "strict", false, "fail on markdown errors instead of falling back")
	f.BoolVar(&o.cache, "cache", false, "enable the render cache")
	f.StringVar(&o.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newListCmd(o),
		newShowCmd(o),
		newSearchCmd(o),
		newStatsCmd(o),
		newTagsCmd(o),
		newRenderCmd(o),
		newExportCmd(o),
		newWatchCmd(o),
		newCacheCmd(o),
	)
	return cmd
}

// open loads the configuration in order: defaults, yaml file, environment
// (after .env), then command line flags.
func (o *rootOptions) open(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(o.envPath); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return err
	}
	if o.root != "" {
		cfg.Content.Root = o.root
	}
	if o.strict {
		cfg.Render.Mode = config.RenderStrict
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled = o.cache
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logs, err := logging.NewGoLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	a, err := app.New(cfg, logs)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
