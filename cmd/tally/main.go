package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/ypelletier/tally/pkg/batch"
	"github.com/ypelletier/tally/pkg/config"
	"github.com/ypelletier/tally/pkg/report"
	"github.com/ypelletier/tally/pkg/service"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally labeled totals from date-named statement files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <folder>",
	Short: "Scan one folder and write its CSV table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		processor, err := service.NewProcessor(cfg, logger)
		if err != nil {
			return err
		}

		folder := args[0]
		return runJob(cmd.Context(), processor, cfg, folder, cfg.OutputPath(folder))
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <manifest.yaml>",
	Short: "Run every scan job in a YAML manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		manifest, err := batch.Load(args[0])
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			fmt.Printf("Manifest preview for %s\n", args[0])
			manifest.Print()
			return nil
		}

		// One processor for the whole batch, so jobs share the rate cache.
		processor, err := service.NewProcessor(cfg, logger)
		if err != nil {
			return err
		}

		for _, job := range manifest.Jobs {
			output := job.Output
			if output == "" {
				output = filepath.Join(job.Folder, config.DefaultOutputName)
			}
			if err := runJob(cmd.Context(), processor, cfg, job.Folder, output); err != nil {
				return err
			}
		}
		return nil
	},
}

func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "tally",
		Level:           level,
	})
	return cfg, logger, nil
}

func runJob(ctx context.Context, processor *service.Processor, cfg *config.Config, folder, output string) error {
	result, err := processor.Run(ctx, folder)
	if err != nil {
		return err
	}

	report.Summary(os.Stdout, result)

	if cfg.Dump {
		pp.Fprintln(os.Stderr, result)
	}

	if err := report.SaveCSV(output, result); err != nil {
		return err
	}
	if result.Stats.FilesFound > 0 {
		fmt.Printf("\nResults saved to: %s\n", output)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is tally.yaml)")

	scanCmd.Flags().StringP("output", "o", "", "CSV output path (default <folder>/"+config.DefaultOutputName+")")
	scanCmd.Flags().String("extension", "pdf", "Document extension to scan for")
	scanCmd.Flags().String("provider-url", "https://api.frankfurter.app", "Exchange rate API base URL")
	scanCmd.Flags().Duration("timeout", 10*time.Second, "Exchange rate request timeout")
	scanCmd.Flags().BoolP("verbose", "v", false, "Debug logging")
	scanCmd.Flags().Bool("dump", false, "Dump the raw result to stderr")

	batchCmd.Flags().Bool("dry-run", false, "Preview the manifest without scanning")
	batchCmd.Flags().String("extension", "pdf", "Document extension to scan for")
	batchCmd.Flags().String("provider-url", "https://api.frankfurter.app", "Exchange rate API base URL")
	batchCmd.Flags().Duration("timeout", 10*time.Second, "Exchange rate request timeout")
	batchCmd.Flags().BoolP("verbose", "v", false, "Debug logging")
	batchCmd.Flags().Bool("dump", false, "Dump each raw result to stderr")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
