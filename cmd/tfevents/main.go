package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/tfevents"
	"github.com/bft-labs/tfevents/internal/cliconfig"
	"github.com/bft-labs/tfevents/pkg/log"
	"github.com/bft-labs/tfevents/pkg/metrics"
	"github.com/bft-labs/tfevents/pkg/summary"
)

const longHelp = `Print the summaries stored in a directory of TensorBoard event files.

Every regular file in the log directory is read in name order. Scalars are
printed by default; request images with --type image or --type image_raw.

Configuration is read from $HOME/.tfevents/config.toml, then TFEVENTS_*
environment variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  tfevents runs/exp1
  tfevents runs/exp1 --tag loss --tag accuracy -o json
  tfevents --logdir runs/exp1 --type scalar,image_raw --stop-on-error --stats
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "tfevents [logdir]",
		Short:         "Print the summaries stored in TensorBoard event files",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) == 1 {
				cfg.LogDir = args[0]
				changed["logdir"] = true
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, stdout, stderr)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.tfevents/config.toml)")
	root.Flags().StringVar(&cfg.LogDir, "logdir", cfg.LogDir, "directory of event files (or pass it as the argument)")
	root.Flags().StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "read only files whose name matches this glob")
	root.Flags().StringSliceVar(&cfg.Tags, "tag", cfg.Tags, "keep only these tags (repeatable; default all)")
	root.Flags().StringSliceVar(&cfg.Types, "type", cfg.Types, "item types: scalar, image, image_raw")
	root.Flags().BoolVar(&cfg.StopOnError, "stop-on-error", cfg.StopOnError, "abort on the first damaged file instead of skipping it")
	root.Flags().Uint64Var(&cfg.MaxRecordSize, "max-record-size", cfg.MaxRecordSize, "largest accepted record payload in bytes (0: library default)")
	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: table or json")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().BoolVar(&cfg.Stats, "stats", cfg.Stats, "print reader counters when done")

	return root
}

func run(cfg cliconfig.Config, stdout, stderr io.Writer) error {
	logger := log.NewZerologAdapter(stderr, log.ParseLevel(cfg.LogLevel))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	opts := append(cfg.ReaderOptions(), summary.WithLogger(logger), summary.WithMetrics(m))
	r, err := tfevents.OpenSummaryReader(cfg.LogDir, opts...)
	if err != nil {
		return err
	}
	logger.Debug("reading event files",
		log.String("logdir", cfg.LogDir),
		log.Any("types", r.Types()),
		log.String("policy", r.Policy().String()),
	)

	printer := newItemPrinter(cfg.Output, stdout)
	var readErr error
	for it, err := range r.All() {
		if err != nil {
			readErr = err
			break
		}
		if err := printer.Print(it); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := printer.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if n := counterValue(m.FilesSkipped); n > 0 {
		color.New(color.FgYellow).Fprintf(stderr, "skipped the rest of %d damaged file(s)\n", int(n))
	}

	if cfg.Stats {
		families, err := reg.Gather()
		if err != nil {
			return fmt.Errorf("gather stats: %w", err)
		}
		printStats(stderr, families)
	}
	return readErr
}
