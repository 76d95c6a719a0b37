package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/district-cli/internal/dataset"
	"github.com/sells-group/district-cli/internal/enrich"
	"github.com/sells-group/district-cli/pkg/districts"
	"github.com/sells-group/district-cli/pkg/geocode"
)

var (
	enrichInput  string
	enrichOutput string
	enrichLimit  int
	enrichDryRun bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Geocode a roster and resolve districts for every record",
	Long: `Reads an xlsx roster, geocodes each record that lacks coordinates,
resolves supervisorial, census, and political districts, and writes the
enriched roster out. Progress is checkpointed periodically so an interrupted
run can resume from the last checkpoint file.

Examples:
  # Parse the roster only, no lookups
  district-cli enrich --input roster.xlsx --dry-run

  # Enrich the first 5 records into a named output
  district-cli enrich --input roster.xlsx --limit 5 --output enriched.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ds, err := dataset.Load(enrichInput, dataset.Columns{
			Address: cfg.Dataset.AddressColumn,
			City:    cfg.Dataset.CityColumn,
			ZipCode: cfg.Dataset.ZipColumn,
		})
		if err != nil {
			return eris.Wrap(err, "enrich: load roster")
		}
		zap.L().Info("loaded roster", zap.String("path", enrichInput), zap.Int("records", ds.Len()))

		if enrichLimit > 0 {
			ds.Truncate(enrichLimit)
		}

		if enrichDryRun {
			zap.L().Info("dry run, stopping before lookups", zap.Int("records", ds.Len()))
			return nil
		}

		geocoder := geocode.NewClient(
			geocode.WithBaseURL(cfg.Geocode.BaseURL),
			geocode.WithUserAgent(cfg.Geocode.UserAgent),
			geocode.WithRateInterval(time.Duration(cfg.Geocode.DelayMS)*time.Millisecond),
			geocode.WithTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
		)
		lookups := districts.NewClient(
			districts.WithSFEndpoint(cfg.Lookup.SFURL),
			districts.WithMarinEndpoint(cfg.Lookup.MarinURL),
			districts.WithCensusEndpoint(cfg.Lookup.CensusURL),
			districts.WithFCCEndpoint(cfg.Lookup.FCCURL),
			districts.WithRateInterval(time.Duration(cfg.Lookup.DelayMS)*time.Millisecond),
			districts.WithTimeouts(
				time.Duration(cfg.Lookup.ArcGISTimeoutSecs)*time.Second,
				time.Duration(cfg.Lookup.CensusTimeoutSecs)*time.Second,
				time.Duration(cfg.Lookup.FCCTimeoutSecs)*time.Second,
			),
		)

		proc := enrich.NewProcessor(geocoder, lookups, enrich.ProcessorConfig{
			State:         cfg.Geocode.State,
			MunicipalCity: cfg.Lookup.MunicipalCity,
			CountyCities:  cfg.Lookup.CountyCities,
		})
		runner := enrich.NewRunner(proc, cfg.Pipeline.CheckpointEvery, cfg.Pipeline.CheckpointDir)

		sum, err := runner.Run(ctx, ds)
		if err != nil {
			return eris.Wrap(err, "enrich: run")
		}

		out, err := ds.Export(enrichOutput, time.Now())
		if err != nil {
			return eris.Wrap(err, "enrich: export")
		}

		zap.L().Info("enrichment complete",
			zap.String("run_id", sum.RunID),
			zap.Int("processed", sum.Processed),
			zap.Int("total", sum.Total),
			zap.Int("checkpoints", sum.Checkpoints),
			zap.String("output", out),
		)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "path to the roster xlsx (required)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output path (default: timestamped name in the working directory)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "process only the first N records")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "load and count the roster, then stop")
	_ = enrichCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(enrichCmd)
}
