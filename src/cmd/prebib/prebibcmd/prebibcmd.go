package prebibcmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prebib/src/internal/config"
	"prebib/src/internal/diag"
	"prebib/src/internal/metrics"
	"prebib/src/internal/policy"
	"prebib/src/internal/transform"
)

// ErrUsage is returned when the command is not given exactly one file.
var ErrUsage = errors.New("usage: prebib <infile>")

// New returns the prebib command: read one BibTeX file, write the
// normalized entries to stdout and warnings to stderr.
func New() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		logFormat   string
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:           "prebib <infile>",
		Short:         "Normalize a BibTeX file: drop unwanted fields per class and flag suspicious values",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			if cmd.Flags().Changed("metrics-file") {
				cfg.MetricsFile = metricsFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := diag.NewLogger(cmd.ErrOrStderr(), diag.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			tr := transform.New(policy.Default(), transform.WithBanner(cfg.Banner))
			res, err := tr.Process(string(src))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			warns := res.Warnings()
			for _, w := range warns {
				log.Warn(w.String())
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), res.Output); err != nil {
				return err
			}
			log.Info("processed", "file", args[0], "entries", len(res.Entries), "warnings", len(warns))

			if cfg.MetricsFile != "" {
				rec := metrics.New()
				rec.Observe(res)
				if err := rec.WriteFile(cfg.MetricsFile); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
				log.Debug("wrote metrics", "path", cfg.MetricsFile)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML settings file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Diagnostics level (debug|info|warn|error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Diagnostics format (text|json)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write prometheus counters to this file")
	return cmd
}
