// Package impact translates exogenous shocks and policy levers into a revised
// indicator snapshot: commodity and investment shocks move reserves, shock
// magnitude pressures the currency, and currency pressure plus the policy rate
// move inflation and liquidity.
package impact

import (
	"errors"
	"math"

	"sipre-forecast/internal/model"
)

// Transfer coefficients. These are part of the reproducible contract and must not be recalibrated.
const (
	// reserves' = reserves * (1 + BauxiteReservesCoef*bauxite + FDIReservesCoef*fdi)
	BauxiteReservesCoef = 0.01
	FDIReservesCoef     = 0.005

	// fx_pressure = BauxiteFXPressureCoef*|bauxite| + FDIFXPressureCoef*|fdi|
	BauxiteFXPressureCoef = 4.0
	FDIFXPressureCoef     = 2.0

	// inflation' = inflation + FXPassThroughCoef*fx_pressure - PolicyInflationCoef*policy_bps
	FXPassThroughCoef   = 0.006
	PolicyInflationCoef = 0.001

	// liquidity' = liquidity - policy_bps/BpsPerLiquidityPoint
	BpsPerLiquidityPoint = 100.0
)

// Impact is the calculator output: the revised snapshot plus the scalar intermediates.
type Impact struct {
	Revised model.RevisedSnapshot

	// FXPressure is in GNF and always >= 0.
	FXPressure float64
	// PolicyEffect is the inflation reduction (percentage points) from the rate adjustment.
	PolicyEffect float64
}

// Apply computes the revised snapshot. It performs no clamping: extreme shocks may
// drive reserves negative, which is a valid state for the stress evaluator to report.
func Apply(latest model.IndicatorSnapshot, params model.ScenarioParameters) (Impact, error) {
	if err := params.CheckFinite(); err != nil {
		return Impact{}, err
	}
	if err := latest.CheckFinite(); err != nil {
		var ipe *model.InvalidParameterError
		if errors.As(err, &ipe) {
			return Impact{}, &model.InvalidParameterError{Field: "latest." + ipe.Field, Value: ipe.Value}
		}
		return Impact{}, err
	}

	bauxite := params.BauxitePriceShockPct
	fdi := params.FDIFlowShockPct
	policy := params.PolicyRateAdjustmentBps

	pressure := FXPressure(bauxite, fdi)
	policyEffect := policy * PolicyInflationCoef

	revised := model.IndicatorSnapshot{
		ReservesUSDBillion: latest.ReservesUSDBillion * (1 + BauxiteReservesCoef*bauxite + FDIReservesCoef*fdi),
		FXRateGNFPerUSD:    latest.FXRateGNFPerUSD + pressure,
		InflationPct:       latest.InflationPct + FXPassThroughCoef*pressure - policyEffect,
		BankLiquidityPct:   latest.BankLiquidityPct - policy/BpsPerLiquidityPoint,
		NPLRatioPct:        latest.NPLRatioPct,
	}

	return Impact{
		Revised:      model.RevisedSnapshot{IndicatorSnapshot: revised},
		FXPressure:   pressure,
		PolicyEffect: policyEffect,
	}, nil
}

// FXPressure depends on shock magnitude only: a large shock in either direction
// stresses the currency.
func FXPressure(bauxiteShockPct, fdiShockPct float64) float64 {
	return BauxiteFXPressureCoef*math.Abs(bauxiteShockPct) + FDIFXPressureCoef*math.Abs(fdiShockPct)
}
