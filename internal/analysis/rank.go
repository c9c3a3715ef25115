package analysis

import (
	"sort"

	"sipre-forecast/internal/pipeline"
	"sipre-forecast/internal/stress"
)

// NamedResult is one evaluated scenario variation.
type NamedResult struct {
	Name   string           `json:"name"`
	Result *pipeline.Result `json:"result"`
}

// RankedScenario is a result with its 1-based rank.
type RankedScenario struct {
	Rank int `json:"rank"`
	NamedResult
}

// RankScenarios orders results by revised reserves, best first. Stable results
// always rank ahead of critical ones; ties keep input order.
func RankScenarios(results []NamedResult) []RankedScenario {
	out := make([]RankedScenario, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		out = append(out, RankedScenario{NamedResult: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		if ca, cb := a.Stress.Level == stress.LevelCritical, b.Stress.Level == stress.LevelCritical; ca != cb {
			return !ca
		}
		return a.Revised.ReservesUSDBillion > b.Revised.ReservesUSDBillion
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
