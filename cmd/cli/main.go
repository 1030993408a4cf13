package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cycleshare/adapters/api"
	"cycleshare/adapters/extract"
	"cycleshare/adapters/memstore"
	"cycleshare/adapters/postgres"
	"cycleshare/app"
	"cycleshare/internal"
	"cycleshare/internal/analysis"
	"cycleshare/internal/config"
	"cycleshare/internal/report"
	"cycleshare/internal/testkit"
	"cycleshare/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "cycleshare",
		Short: "Bicycle-share trip pipeline: load extracts, compute aggregates",
	}

	rootCmd.AddCommand(
		newLoadCmd(),
		newAggregateCmd(),
		newReportCmd(),
		newServeCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore selects the canonical store: Postgres when DATABASE_URL is
// set, the in-memory store otherwise. The cleanup func is safe to call
// unconditionally.
func openStore(cfg *config.Config) (ports.TripStore, func(), error) {
	if cfg.Database.URL == "" {
		internal.DefaultLogger.Warn("DATABASE_URL not set, using in-memory store (contents are lost on exit)")
		return memstore.New(), func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewTripRepository(db), func() { db.Close() }, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func outlierPolicy(cfg *config.Config) analysis.OutlierPolicy {
	return analysis.OutlierPolicy{
		Percentile: cfg.Outlier.Percentile,
		Floors: map[analysis.Field]float64{
			analysis.FieldDistance: cfg.Outlier.DistanceFloorM,
			analysis.FieldDuration: cfg.Outlier.DurationFloorMn,
		},
	}
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [extract files...]",
		Short: "Load one or more CSV/XLSX extracts into the canonical store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			loader := app.NewLoaderService(store, internal.DefaultLogger)
			sources := make([]ports.ExtractSource, len(args))
			for i, path := range args {
				sources[i] = extract.NewFileSource(path)
			}

			combined, err := loader.LoadAll(context.Background(), sources)
			if err != nil {
				return err
			}
			return printJSON(cmd, combined)
		},
	}
}

func newAggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Compute all aggregate result tables over the canonical store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			service := app.NewAggregateService(store, outlierPolicy(cfg))
			tables, err := service.ComputeAll(context.Background())
			if err != nil {
				return err
			}
			return printJSON(cmd, tables)
		},
	}
}

func newReportCmd() *cobra.Command {
	var asHTML bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the aggregate report as markdown or HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			service := app.NewAggregateService(store, outlierPolicy(cfg))
			tables, err := service.ComputeAll(context.Background())
			if err != nil {
				return err
			}

			var out []byte
			if asHTML {
				out = report.RenderHTML(tables)
			} else {
				out = []byte(report.RenderMarkdown(tables))
			}

			if outPath != "" {
				return os.WriteFile(outPath, out, 0644)
			}
			cmd.Print(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML instead of markdown")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the report to a file")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregate result tables over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			service := app.NewAggregateService(store, outlierPolicy(cfg))
			server := api.NewServer(service, store, internal.DefaultLogger)
			return server.Start(api.Config{Port: cfg.Server.Port})
		},
	}
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var trips int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the full pipeline end to end over synthetic extracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			genConfig := testkit.DefaultGeneratorConfig()
			genConfig.Seed = seed
			genConfig.TripCount = trips

			kit := testkit.NewKit(genConfig)
			ctx := context.Background()

			loadReport, err := kit.LoadSynthetic(ctx, 20)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, loadReport); err != nil {
				return err
			}

			tables, err := kit.Aggregates.ComputeAll(ctx)
			if err != nil {
				return err
			}
			cmd.Print(report.RenderMarkdown(tables))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	cmd.Flags().IntVar(&trips, "trips", 500, "number of synthetic trips")
	return cmd
}

func printJSON(cmd *cobra.Command, payload interface{}) error {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
