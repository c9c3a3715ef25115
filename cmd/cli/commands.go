package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"sipre-forecast/internal/analysis"
	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/config"
	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/forecast"
	"sipre-forecast/internal/logging"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"
	"sipre-forecast/internal/report"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// dataFlags select and load the historical dataset.
type dataFlags struct {
	configPath string
	dataPath   string
	source     string
	sheet      string
	seed       int64
	logLevel   string
}

func (d *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.configPath, "config", "", "Path to YAML config (optional)")
	cmd.Flags().StringVar(&d.dataPath, "data", "", "Path to the BCRG dataset (csv, xlsx or json)")
	cmd.Flags().StringVar(&d.source, "source", "", "Dataset source: csv, xlsx, json or synthetic (default: from extension)")
	cmd.Flags().StringVar(&d.sheet, "sheet", "", "Sheet name for xlsx datasets (default: first sheet)")
	cmd.Flags().Int64Var(&d.seed, "seed", 0, "Seed for the synthetic dataset")
	cmd.Flags().StringVar(&d.logLevel, "log-level", "warn", "Log level written to stderr")
}

func (d *dataFlags) load(cmd *cobra.Command) (*config.Config, model.HistoricalSeries, zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(d.logLevel)
	if err != nil {
		return nil, model.HistoricalSeries{}, zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	logger := logging.NewWithWriter(os.Stderr, "console", level)

	cfg, err := config.LoadUnchecked(d.configPath)
	if err != nil {
		return nil, model.HistoricalSeries{}, logger, err
	}
	if cmd.Flags().Changed("data") {
		cfg.Dataset.Path = d.dataPath
		if !cmd.Flags().Changed("source") {
			cfg.Dataset.Source = ""
		}
	}
	if cmd.Flags().Changed("source") {
		cfg.Dataset.Source = d.source
	}
	if cmd.Flags().Changed("sheet") {
		cfg.Dataset.Sheet = d.sheet
	}
	if cmd.Flags().Changed("seed") {
		cfg.Dataset.Seed = d.seed
	}
	// An explicitly requested file must exist; the synthetic stand-in is for
	// unattended runs only.
	if d.configPath == "" {
		cfg.Dataset.SyntheticFallback = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, model.HistoricalSeries{}, logger, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	src, err := dataset.Open(ctx, cfg.DatasetOptions(), logger)
	if err != nil {
		return nil, model.HistoricalSeries{}, logger, err
	}
	defer func() {
		if err := dataset.Close(src); err != nil {
			logger.Warn().Err(err).Msg("failed to close dataset source")
		}
	}()
	history, err := src.Load(ctx)
	if err != nil {
		return nil, model.HistoricalSeries{}, logger, fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Debug().
		Str("source", dataset.ServedBy(src)).
		Int("observations", history.Len()).
		Msg("dataset loaded")
	return cfg, history, logger, nil
}

// scenarioFlags are the scenario levers shared by evaluate and note.
type scenarioFlags struct {
	bauxite      float64
	fdi          float64
	policy       float64
	horizon      int
	scenarioFile string
}

func (s *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.bauxite, "bauxite", 0, "Bauxite price shock, % (typical range -50..20)")
	cmd.Flags().Float64Var(&s.fdi, "fdi", 0, "FDI flow shock, % (typical range -30..30)")
	cmd.Flags().Float64Var(&s.policy, "policy", 0, "Policy rate adjustment, bps (typical range -200..500)")
	cmd.Flags().IntVar(&s.horizon, "horizon", model.DefaultForecastHorizonMonths, "Forecast horizon in months: 1, 3, 6 or 12")
	cmd.Flags().StringVar(&s.scenarioFile, "scenario-file", "", "Scenario preset (path, or name in the scenario directory)")
}

// params loads the optional preset and applies every flag the user set on top,
// zero values included.
func (s *scenarioFlags) params(cmd *cobra.Command, cfg *config.Config) (string, model.ScenarioParameters, error) {
	sc := config.ScenarioConfig{Name: "custom"}
	if s.scenarioFile != "" {
		path := s.scenarioFile
		if _, err := os.Stat(path); err != nil {
			resolved, rerr := config.ResolveScenarioFile(cfg.ScenarioDir, s.scenarioFile)
			if rerr != nil {
				return "", model.ScenarioParameters{}, rerr
			}
			path = resolved
		}
		preset, err := config.LoadScenarioFile(path)
		if err != nil {
			return "", model.ScenarioParameters{}, err
		}
		sc = preset
	}

	flags := cmd.Flags()
	if flags.Changed("bauxite") {
		sc.BauxitePriceShockPct = s.bauxite
	}
	if flags.Changed("fdi") {
		sc.FDIFlowShockPct = s.fdi
	}
	if flags.Changed("policy") {
		sc.PolicyRateAdjustmentBps = s.policy
	}
	if flags.Changed("horizon") || sc.ForecastHorizonMonths == 0 {
		sc.ForecastHorizonMonths = s.horizon
	}

	p := sc.Params()
	if !model.IsRecognizedHorizon(p.ForecastHorizonMonths) {
		return "", model.ScenarioParameters{}, fmt.Errorf("--horizon must be one of %v, got %d", model.ForecastHorizons, p.ForecastHorizonMonths)
	}
	return sc.Name, p, nil
}

func newEngine(cfg *config.Config, logger zerolog.Logger) *pipeline.Engine {
	return pipeline.New(
		pipeline.WithAdjuster(forecast.NewAdjuster()),
		pipeline.WithPolicy(cfg.StressPolicy()),
		pipeline.WithLogger(logger),
	)
}

// EvaluateCmd runs one scenario and prints KPIs, stress and projection.
type EvaluateCmd struct {
	data     dataFlags
	scenario scenarioFlags
	outPath  string
	tail     int
	asJSON   bool
}

func newEvaluateCmd() *cobra.Command {
	ec := &EvaluateCmd{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Apply a scenario and print KPIs, stress level and inflation projection",
		RunE:  ec.run,
	}
	ec.data.register(cmd)
	ec.scenario.register(cmd)
	cmd.Flags().StringVar(&ec.outPath, "out", "", "Optional CSV export of recent history plus the projection")
	cmd.Flags().IntVar(&ec.tail, "tail", 12, "History months included in the CSV export")
	cmd.Flags().BoolVar(&ec.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func (ec *EvaluateCmd) run(cmd *cobra.Command, args []string) error {
	cfg, history, logger, err := ec.data.load(cmd)
	if err != nil {
		return err
	}
	name, params, err := ec.scenario.params(cmd, cfg)
	if err != nil {
		return err
	}

	res, err := newEngine(cfg, logger).Run(cmd.Context(), history, params)
	if err != nil {
		return err
	}

	if ec.outPath != "" {
		if err := os.MkdirAll(filepath.Dir(ec.outPath), 0o755); err != nil {
			return err
		}
		if err := pipeline.WriteProjectionCSV(ec.outPath, history, res, ec.tail); err != nil {
			return fmt.Errorf("failed to write %s: %w", ec.outPath, err)
		}
		logger.Info().Str("path", ec.outPath).Msg("projection written")
	}

	out := cmd.OutOrStdout()
	if ec.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewEvaluateResponse(name, res))
	}
	return printResult(out, name, res)
}

func printResult(out io.Writer, name string, res *pipeline.Result) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Scenario\t%s\n", name)
	fmt.Fprintf(tw, "Evaluation\t%s\n\n", res.ID)

	k := res.KPIs
	fmt.Fprintln(tw, "INDICATOR\tVALUE\tCHANGE")
	fmt.Fprintf(tw, "Inflation\t%s\t%s\n", k.Inflation.ValueLabel, k.Inflation.DeltaLabel)
	fmt.Fprintf(tw, "Reserves\t%s\t%s\n", k.Reserves.ValueLabel, k.Reserves.DeltaLabel)
	fmt.Fprintf(tw, "GNF/USD\t%s\t%s\n", k.FXRate.ValueLabel, k.FXRate.DeltaLabel)
	fmt.Fprintf(tw, "Liquidity\t%s\t%s\n", k.Liquidity.ValueLabel, k.Liquidity.DeltaLabel)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n[%s] %s\n", res.Stress.Level, res.Stress.Message)
	fmt.Fprintf(out, "\nInflation projection (%s):\n", res.Forecast.Status)
	fmt.Fprint(out, report.ProjectionTable(res.Projection()))
	if res.Forecast.Fallback() {
		fmt.Fprintf(out, "seasonal model unavailable: %s\n", res.Forecast.Reason())
	}
	return nil
}

type NoteCmd struct {
	data     dataFlags
	scenario scenarioFlags
}

func newNoteCmd() *cobra.Command {
	nc := &NoteCmd{}
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Print the conjuncture note for a scenario",
		RunE:  nc.run,
	}
	nc.data.register(cmd)
	nc.scenario.register(cmd)
	return cmd
}

func (nc *NoteCmd) run(cmd *cobra.Command, args []string) error {
	cfg, history, logger, err := nc.data.load(cmd)
	if err != nil {
		return err
	}
	_, params, err := nc.scenario.params(cmd, cfg)
	if err != nil {
		return err
	}
	res, err := newEngine(cfg, logger).Run(cmd.Context(), history, params)
	if err != nil {
		return err
	}
	return report.NewRenderer(cmd.OutOrStdout()).Render(res)
}

type SummaryCmd struct {
	data dataFlags
}

func newSummaryCmd() *cobra.Command {
	sc := &SummaryCmd{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-indicator statistics of the dataset",
		RunE:  sc.run,
	}
	sc.data.register(cmd)
	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, args []string) error {
	_, history, _, err := sc.data.load(cmd)
	if err != nil {
		return err
	}
	if history.Empty() {
		return pipeline.ErrEmptyHistory
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d observations, %s to %s\n\n",
		history.Len(),
		history.FirstDate().Format(model.DateLayout),
		history.LastDate().Format(model.DateLayout))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "indicator\tmin\tp05\tmean\tp95\tmax\tstd\tlast\tchange\t")
	for _, s := range analysis.Summarize(history) {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%+.2f\t\n",
			s.Indicator, s.Min, s.P05, s.Mean, s.P95, s.Max, s.StdDev, s.Last, s.Change)
	}
	return tw.Flush()
}
