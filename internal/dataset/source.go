// Package dataset loads the historical indicator series from files, databases,
// remote services or a seeded generator.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"sipre-forecast/internal/model"
)

// ErrDataUnavailable wraps every load failure: missing file, bad column, bad value.
var ErrDataUnavailable = errors.New("dataset unavailable")

// Source produces an immutable historical series.
type Source interface {
	Name() string
	Load(ctx context.Context) (model.HistoricalSeries, error)
}

// Column headers of the tabular dataset.
const (
	ColDate      = "Date"
	ColInflation = "Inflation"
	ColReserves  = "Reserves_USD"
	ColFXRate    = "Taux_USD_GNF"
	ColLiquidity = "Liquidite_Bancaire"
	ColNPL       = "NPL_Ratio"
)

var Columns = []string{ColDate, ColInflation, ColReserves, ColFXRate, ColLiquidity, ColNPL}

var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01",
}

func unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, source, err)
}

// ParseDate accepts day, RFC3339, timestamp and month-only forms.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseTable converts a header plus rows (CSV or spreadsheet) into a series.
// Columns are matched by name; extra columns are ignored; blank rows are skipped.
func parseTable(header []string, rows [][]string) (model.HistoricalSeries, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return model.HistoricalSeries{}, fmt.Errorf("missing column %q", c)
		}
	}

	obs := make([]model.Observation, 0, len(rows))
	for n, row := range rows {
		if blank(row) {
			continue
		}
		line := n + 2
		cell := func(col string) (string, error) {
			i := idx[col]
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				return "", fmt.Errorf("row %d: missing %s", line, col)
			}
			return strings.TrimSpace(row[i]), nil
		}
		num := func(col string) (float64, error) {
			s, err := cell(col)
			if err != nil {
				return 0, err
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: %s: %w", line, col, err)
			}
			return v, nil
		}

		ds, err := cell(ColDate)
		if err != nil {
			return model.HistoricalSeries{}, err
		}
		date, err := ParseDate(ds)
		if err != nil {
			return model.HistoricalSeries{}, fmt.Errorf("row %d: %w", line, err)
		}

		var o model.Observation
		o.Date = date
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{ColInflation, &o.InflationPct},
			{ColReserves, &o.ReservesUSDBillion},
			{ColFXRate, &o.FXRateGNFPerUSD},
			{ColLiquidity, &o.BankLiquidityPct},
			{ColNPL, &o.NPLRatioPct},
		} {
			if *f.dst, err = num(f.col); err != nil {
				return model.HistoricalSeries{}, err
			}
		}
		obs = append(obs, o)
	}
	return newSeries(obs)
}

// newSeries orders observations by date and validates them.
func newSeries(obs []model.Observation) (model.HistoricalSeries, error) {
	if len(obs) == 0 {
		return model.HistoricalSeries{}, errors.New("no observations")
	}
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return model.NewHistoricalSeries(obs)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Rows renders a series back into table form, header first.
func Rows(s model.HistoricalSeries) [][]string {
	out := make([][]string, 0, s.Len()+1)
	out = append(out, append([]string(nil), Columns...))
	for _, o := range s.Observations {
		out = append(out, []string{
			o.Date.Format(model.DateLayout),
			formatFloat(o.InflationPct),
			formatFloat(o.ReservesUSDBillion),
			formatFloat(o.FXRateGNFPerUSD),
			formatFloat(o.BankLiquidityPct),
			formatFloat(o.NPLRatioPct),
		})
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
