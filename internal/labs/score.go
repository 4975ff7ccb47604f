// Package labs scores and recommends domestic test labs for a submission
// package. Scoring normalizes heterogeneous metrics onto 0..100 scales and
// composes a weighted total; the weights and the additive calibration offset
// are fixed product constants, not derived values.
package labs

import (
	"math"

	"export-pilot/internal/entity"
)

// Composite weights. Outcome-quality metrics (success rate, field fit)
// intentionally outweigh logistics metrics (cost, lead time).
const (
	weightCost     = 0.15
	weightLeadTime = 0.15
	weightSuccess  = 0.35
	weightFieldFit = 0.35

	// Display calibration added to every composite before clamping.
	compositeOffset = 8
)

// Reference-max derivation constants for the inverse-normalized metrics.
const (
	costStep  = 50
	costFloor = 200
	leadStep  = 5
	leadFloor = 30

	defaultMaxCost = 300
	defaultMaxLead = 60

	headroom = 1.15
)

func nvl(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// toPct interprets a raw metric: values in [0,1] are fractions (scaled to a
// percentage), anything above 1 is already a percentage. A literal 1 is a
// fraction, so it maps to 100.
func toPct(v float64) float64 {
	x := nvl(v)
	if x <= 1 {
		return math.Round(x * 100)
	}
	return math.Round(x)
}

func clampPct(p float64) float64 {
	return math.Max(0, math.Min(100, nvl(p)))
}

func roundUpStep(v, step float64) float64 {
	s := math.Max(1, nvl(step))
	return math.Ceil(nvl(v)/s) * s
}

// invNormalize maps a "lower is better" value onto 0..100: zero scores 100,
// the reference max scores 0.
func invNormalize(value, refMax float64) float64 {
	m := math.Max(1, nvl(refMax))
	return clampPct(100 - (nvl(value)/m)*100)
}

// GaugeMax is the per-comparison-set reference ceiling for the inverse
// metrics.
type GaugeMax struct {
	Cost     float64 `json:"cost"`
	LeadDays float64 `json:"lead_days"`
}

// ComputeGaugeMax derives the gauge ceilings from the candidates being
// compared: max observed value plus 15% headroom, rounded up to a fixed step,
// floored so a uniformly cheap or fast set does not degenerate the scale.
func ComputeGaugeMax(candidates []entity.LabCandidate) GaugeMax {
	maxCost := math.NaN()
	maxLead := math.NaN()
	for _, lab := range candidates {
		c := lab.Scoring.Cost
		l := lab.Scoring.LeadTime
		if !math.IsNaN(c) && !math.IsInf(c, 0) && (math.IsNaN(maxCost) || c > maxCost) {
			maxCost = c
		}
		if !math.IsNaN(l) && !math.IsInf(l, 0) && (math.IsNaN(maxLead) || l > maxLead) {
			maxLead = l
		}
	}
	if math.IsNaN(maxCost) {
		maxCost = defaultMaxCost
	}
	if math.IsNaN(maxLead) {
		maxLead = defaultMaxLead
	}
	return GaugeMax{
		Cost:     math.Max(costFloor, roundUpStep(maxCost*headroom, costStep)),
		LeadDays: math.Max(leadFloor, roundUpStep(maxLead*headroom, leadStep)),
	}
}

// Score normalizes one candidate's metrics against the gauge ceilings and
// composes the weighted total. Missing or non-numeric metrics score as 0
// before normalization; the composite is always an integer in [0,100].
func Score(lab entity.LabCandidate, g GaugeMax) entity.LabScore {
	costScore := invNormalize(lab.Scoring.Cost, g.Cost)
	timeScore := invNormalize(lab.Scoring.LeadTime, g.LeadDays)
	successScore := clampPct(toPct(lab.Scoring.SuccessRate))
	fieldScore := clampPct(toPct(lab.Scoring.TestField))

	weighted := costScore*weightCost +
		timeScore*weightLeadTime +
		successScore*weightSuccess +
		fieldScore*weightFieldFit

	return entity.LabScore{
		LabID:     lab.ID,
		Cost:      int(math.Round(costScore)),
		LeadTime:  int(math.Round(timeScore)),
		Success:   int(successScore),
		FieldFit:  int(fieldScore),
		Composite: int(math.Round(clampPct(weighted + compositeOffset))),
	}
}
