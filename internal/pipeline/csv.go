package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"sipre-forecast/internal/model"
)

const (
	kindHistory    = "history"
	kindProjection = "projection"
)

// WriteProjectionCSV writes the last tail months of history followed by the
// adjusted projection to path.
func WriteProjectionCSV(path string, history model.HistoricalSeries, res *Result, tail int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeProjectionCSV(f, history, res, tail); err != nil {
		return err
	}
	return f.Close()
}

// EncodeProjectionCSV writes the last tail observations followed by the projection.
func EncodeProjectionCSV(out io.Writer, history model.HistoricalSeries, res *Result, tail int) error {
	w := csv.NewWriter(out)

	header := []string{
		"date",
		"kind",
		"inflation_pct",
		"raw_forecast_pct",
		"forecast_status",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, o := range history.Tail(tail).Observations {
		row := []string{
			o.Date.Format(model.DateLayout),
			kindHistory,
			fmtFloat(o.InflationPct),
			"",
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for i, p := range res.Forecast.Projection {
		raw := ""
		if i < len(res.Forecast.Raw) {
			raw = fmtFloat(res.Forecast.Raw[i])
		}
		row := []string{
			p.Date.Format(model.DateLayout),
			kindProjection,
			fmtFloat(p.Value),
			raw,
			string(res.Forecast.Status),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
