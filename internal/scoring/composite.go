package scoring

import (
	"storescout/internal/models"
)

// Neutral defaults substituted by the orchestrator when a source is
// unavailable, so a partial aggregation still produces a bounded score.
const (
	NeutralIndicatorScore = 50
	NeutralSurvivalRate   = 0.5
)

// Normalization bounds for the residential-density and income-proxy
// indicators, in the statistics dataset's units.
const (
	residentsFloor   = 5000.0
	residentsCeiling = 150000.0

	incomeFloor   = 2000.0 // thousands per month
	incomeCeiling = 6000.0
)

// ResidentialScore maps resident population onto the 0-100 scale.
func ResidentialScore(population int64) int {
	return Normalize(float64(population), residentsFloor, residentsCeiling, 100)
}

// IncomeScore maps average monthly income onto the 0-100 scale.
func IncomeScore(avgMonthlyIncome float64) int {
	return Normalize(avgMonthlyIncome, incomeFloor, incomeCeiling, 100)
}

// CorrectionConfig carries the regional-correction tuning constants. The
// bonus magnitudes come from the dataset calibration; they are configured,
// never inferred.
type CorrectionConfig struct {
	StableRegimeBonus    float64
	ExpandingRegimeBonus float64
	SurvivalBlendWeight  float64
}

// DefaultCorrection returns the shipped correction constants.
func DefaultCorrection() CorrectionConfig {
	return CorrectionConfig{
		StableRegimeBonus:    0.05,
		ExpandingRegimeBonus: 0.10,
		SurvivalBlendWeight:  0.7,
	}
}

// CompositeInput is everything the composite pass needs. Scores are on the
// 0-100 scale; the survival rate is a fraction in [0,1].
type CompositeInput struct {
	VitalityScore    int
	CompetitionScore int
	SurvivalRate     float64
	ResidentialScore int
	IncomeScore      int

	// Regional is the municipal vitality record used by the correction
	// pass; nil when the region publishes none.
	Regional   *models.VitalityMetrics
	Correction CorrectionConfig
}

// ScoreComposite combines the five weighted sub-indicators into a breakdown
// whose sub-scores are clamped to their declared maxima, then applies the
// regional correction where regional data exists.
func ScoreComposite(in CompositeInput) models.ScoreBreakdown {
	b := models.ScoreBreakdown{
		Vitality:    scale(in.VitalityScore, models.MaxVitality),
		Competition: scale(in.CompetitionScore, models.MaxCompetition),
		Survival:    clampFloat(in.SurvivalRate, 0, 1) * models.MaxSurvival,
		Residential: scale(in.ResidentialScore, models.MaxResidential),
		Income:      scale(in.IncomeScore, models.MaxIncome),
	}

	if in.Regional != nil {
		applyRegionalCorrection(&b, in.Regional, in.SurvivalRate, in.Correction)
	}

	return b
}

// applyRegionalCorrection adjusts vitality and survival from the municipal
// dataset. Vitality gets a small multiplicative bonus under the two regimes
// favorable to new entrants; the other two regimes are left uncorrected.
// Survival becomes a weighted blend of the registry survival rate and the
// closure-rate-derived proxy. Both stay within their declared maxima.
func applyRegionalCorrection(b *models.ScoreBreakdown, regional *models.VitalityMetrics, registrySurvival float64, cfg CorrectionConfig) {
	switch regional.ChangeIndex {
	case models.RegimeDynamic:
		b.Vitality = clampFloat(b.Vitality*(1+cfg.StableRegimeBonus), 0, models.MaxVitality)
	case models.RegimeExpanding:
		b.Vitality = clampFloat(b.Vitality*(1+cfg.ExpandingRegimeBonus), 0, models.MaxVitality)
	}

	proxy := clampFloat(1-regional.CloseRate, 0, 1)
	w := clampFloat(cfg.SurvivalBlendWeight, 0, 1)
	blended := w*clampFloat(registrySurvival, 0, 1) + (1-w)*proxy
	b.Survival = clampFloat(blended*models.MaxSurvival, 0, models.MaxSurvival)
}

func scale(score int, max float64) float64 {
	return clampFloat(float64(clampInt(score, 0, 100))/100*max, 0, max)
}
