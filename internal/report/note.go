// Package report renders the conjuncture note for an evaluated scenario.
package report

import (
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"sipre-forecast/internal/forecast"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"
)

const noteTemplate = `CONJUNCTURE NOTE
Evaluation {{.Result.ID}} | generated {{.GeneratedAt.Format "2006-01-02 15:04"}} UTC

=== Scenario ===
Bauxite price shock:     {{fixed .Result.Params.BauxitePriceShockPct 1}} %
FDI flow shock:          {{fixed .Result.Params.FDIFlowShockPct 1}} %
Policy rate adjustment:  {{fixed .Result.Params.PolicyRateAdjustmentBps 0}} bps
Forecast horizon:        {{.Result.Params.ForecastHorizonMonths}} months

=== Key indicators ===
Inflation (CPI):   {{.Result.KPIs.Inflation.ValueLabel}} ({{.Result.KPIs.Inflation.DeltaLabel}})
FX reserves:       {{.Result.KPIs.Reserves.ValueLabel}} ({{.Result.KPIs.Reserves.DeltaLabel}})
GNF/USD rate:      {{.Result.KPIs.FXRate.ValueLabel}} ({{.Result.KPIs.FXRate.DeltaLabel}})
System liquidity:  {{.Result.KPIs.Liquidity.ValueLabel}} ({{.Result.KPIs.Liquidity.DeltaLabel}})
NPL ratio:         {{fixed .Result.Revised.NPLRatioPct 2}} %

=== Resilience ===
[{{.Result.Stress.Level}}] {{.Result.Stress.Message}}
Reserves: {{fixed .Result.Latest.ReservesUSDBillion 2}} -> {{fixed .Result.Revised.ReservesUSDBillion 2}} bn USD

=== Inflation projection ({{.Result.Forecast.Status}}) ===
{{- range .Result.Forecast.Projection}}
{{.Date.Format "2006-01"}}  {{fixed .Value 2}} %
{{- end}}
{{- if .Fallback}}
Note: seasonal model unavailable ({{.Reason}}); projection held flat at the revised inflation.
{{- end}}
`

var tmpl = template.Must(template.New("note").Funcs(template.FuncMap{
	"fixed": fixed,
}).Parse(noteTemplate))

type noteData struct {
	Result      *pipeline.Result
	GeneratedAt time.Time
	Fallback    bool
	Reason      string
}

// Renderer writes conjuncture notes.
type Renderer struct {
	writer io.Writer
	now    func() time.Time
}

// NewRenderer writes to w, or stdout when w is nil.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{writer: w, now: time.Now}
}

// Render writes the conjuncture note for res.
func (r *Renderer) Render(res *pipeline.Result) error {
	if res == nil {
		return fmt.Errorf("result is nil")
	}
	data := noteData{
		Result:      res,
		GeneratedAt: r.now().UTC(),
		Fallback:    res.Forecast.Status == forecast.StatusFallback,
		Reason:      res.Forecast.Reason(),
	}
	if err := tmpl.Execute(r.writer, data); err != nil {
		return fmt.Errorf("failed to render note: %w", err)
	}
	return nil
}

// fixed rounds half away from zero, unlike %f on binary floats.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// ProjectionTable renders the projection as "YYYY-MM  value" lines.
func ProjectionTable(p model.ProjectionSeries) string {
	out := ""
	for _, pt := range p {
		out += pt.Date.Format("2006-01") + "  " + fixed(pt.Value, 2) + "\n"
	}
	return out
}
