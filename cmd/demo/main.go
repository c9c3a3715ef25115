package main

import (
	"context"
	"flag"
	"fmt"

	"sipre-forecast/internal/analysis"
	"sipre-forecast/internal/config"
	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"

	"github.com/rs/zerolog"
)

// Demo:
// - Load the BCRG dataset (or the seeded synthetic one)
// - Evaluate every scenario preset plus a bauxite shock sweep
// - Rank the outcomes and show how the pieces fit together
func main() {
	dataPath := flag.String("data", "", "Path to BCRG dataset (csv, xlsx or json); empty uses synthetic data")
	scenarioDir := flag.String("scenarios", "examples/scenarios", "Directory of scenario presets")
	seed := flag.Int64("seed", 42, "Seed for the synthetic dataset")
	horizon := flag.Int("horizon", 6, "Forecast horizon in months")
	outCSV := flag.String("out", "", "Optional path to write the worst scenario's projection CSV")
	flag.Parse()

	ctx := context.Background()

	var src dataset.Source = dataset.SyntheticSource{Seed: *seed}
	if *dataPath != "" {
		s, err := dataset.Open(ctx, dataset.Options{Path: *dataPath, Seed: *seed, SyntheticFallback: true}, zerolog.Nop())
		if err != nil {
			panic(err)
		}
		src = s
	}
	defer dataset.Close(src)
	history, err := src.Load(ctx)
	if err != nil {
		panic(err)
	}
	latest, _ := history.Latest()

	fmt.Printf("Loaded %d months from %s (%s to %s)\n",
		history.Len(), dataset.ServedBy(src),
		history.FirstDate().Format(model.DateLayout), history.LastDate().Format(model.DateLayout))
	fmt.Printf("Latest: inflation=%.2f%%  reserves=%.2f bn USD  fx=%.0f GNF/USD\n\n",
		latest.InflationPct, latest.ReservesUSDBillion, latest.FXRateGNFPerUSD)

	presets, err := config.LoadScenarioDir(*scenarioDir)
	if err != nil {
		panic(err)
	}
	for b := -50.0; b <= 20; b += 10 {
		presets = append(presets, config.ScenarioConfig{
			Name:                 fmt.Sprintf("sweep_bauxite_%+.0f", b),
			BauxitePriceShockPct: b,
		})
	}

	engine := pipeline.New()
	results := make([]analysis.NamedResult, 0, len(presets))
	for _, p := range presets {
		params := p.Params()
		params.ForecastHorizonMonths = *horizon
		res, err := engine.Run(ctx, history, params)
		if err != nil {
			panic(fmt.Errorf("%s: %w", p.Name, err))
		}
		results = append(results, analysis.NamedResult{Name: p.Name, Result: res})
	}

	ranked := analysis.RankScenarios(results)
	fmt.Printf("%-4s %-24s %8s %8s %7s %10s %-8s %s\n",
		"rank", "scenario", "bauxite", "fdi", "policy", "reserves", "stress", "inflation@h")
	for _, r := range ranked {
		res := r.Result
		proj := res.Projection()
		fmt.Printf("%-4d %-24s %8.1f %8.1f %7.0f %10.2f %-8s %.2f (%s)\n",
			r.Rank, r.Name,
			res.Params.BauxitePriceShockPct, res.Params.FDIFlowShockPct, res.Params.PolicyRateAdjustmentBps,
			res.Revised.ReservesUSDBillion, res.Stress.Level,
			proj[len(proj)-1].Value, res.Forecast.Status)
	}

	if *outCSV != "" && len(ranked) > 0 {
		worst := ranked[len(ranked)-1]
		if err := pipeline.WriteProjectionCSV(*outCSV, history, worst.Result, 12); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV for %s: %s\n", worst.Name, *outCSV)
	}

	critical := 0
	for _, r := range ranked {
		if r.Result.Stress.Critical() {
			critical++
		}
	}
	fmt.Printf("\nDone. %d of %d scenarios breach the %.1f bn USD reserve floor or the %.0f%% bauxite limit.\n",
		critical, len(ranked), engine.Policy().ReserveFloorUSDBillion, engine.Policy().BauxiteShockLimitPct)
}
