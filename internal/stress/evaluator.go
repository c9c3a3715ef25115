package stress

import "fmt"

// Level is the systemic risk state. Keep values stable; they appear in API payloads.
type Level string

const (
	LevelStable   Level = "STABLE"
	LevelCritical Level = "CRITICAL"
)

const (
	// DefaultReserveFloorUSDBillion is the reserves safety floor.
	DefaultReserveFloorUSDBillion = 1.5
	// DefaultBauxiteShockLimitPct is the bauxite shock below which the system is considered critical.
	DefaultBauxiteShockLimitPct = -30.0
)

// Rule identifiers reported in Assessment.Reasons.
const (
	ReasonReservesBelowFloor     = "reserves_below_floor"
	ReasonBauxiteShockBelowLimit = "bauxite_shock_below_limit"
)

const (
	criticalMessage = "ALERT: reserves fall to %.2f bn USD. Critical safety threshold!"
	stableMessage   = "The system currently absorbs the shock without a convertibility break."
)

// Policy holds the classification thresholds. Both comparisons are strict.
type Policy struct {
	ReserveFloorUSDBillion float64 `json:"reserve_floor_usd_billion"`
	BauxiteShockLimitPct   float64 `json:"bauxite_shock_limit_pct"`
}

// DefaultPolicy returns the 1.5 bn USD reserve floor and the -30% bauxite limit.
func DefaultPolicy() Policy {
	return Policy{
		ReserveFloorUSDBillion: DefaultReserveFloorUSDBillion,
		BauxiteShockLimitPct:   DefaultBauxiteShockLimitPct,
	}
}

// Assessment is the stress classification plus a human-readable message.
type Assessment struct {
	Level   Level    `json:"level"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}

func (a Assessment) Critical() bool { return a.Level == LevelCritical }

// Evaluate classifies the revised reserves and the bauxite shock. It is a pure predicate.
func (p Policy) Evaluate(revisedReservesUSDBillion, bauxiteShockPct float64) Assessment {
	var reasons []string
	if revisedReservesUSDBillion < p.ReserveFloorUSDBillion {
		reasons = append(reasons, ReasonReservesBelowFloor)
	}
	if bauxiteShockPct < p.BauxiteShockLimitPct {
		reasons = append(reasons, ReasonBauxiteShockBelowLimit)
	}
	if len(reasons) == 0 {
		return Assessment{Level: LevelStable, Message: stableMessage}
	}
	return Assessment{
		Level:   LevelCritical,
		Message: fmt.Sprintf(criticalMessage, revisedReservesUSDBillion),
		Reasons: reasons,
	}
}

// Evaluate applies DefaultPolicy.
func Evaluate(revisedReservesUSDBillion, bauxiteShockPct float64) Assessment {
	return DefaultPolicy().Evaluate(revisedReservesUSDBillion, bauxiteShockPct)
}
