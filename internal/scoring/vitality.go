package scoring

import (
	"math"

	"storescout/internal/models"
)

// Normalization bounds for the vitality sub-scores, in the dataset's
// thousand-unit currency. The floor trims the bottom ~15% of the observed
// per-store distribution; the ceiling sits near its 90th percentile.
const (
	salesFloorPerStore   = 30000.0
	salesCeilingPerStore = 300000.0

	footTrafficFloor   = 100000.0
	footTrafficCeiling = 5000000.0
)

// changeRegimeScores is the fixed lookup from change-index regime to score.
var changeRegimeScores = map[models.ChangeRegime]int{
	models.RegimeDynamic:     90,
	models.RegimeExpanding:   75,
	models.RegimeContracting: 40,
	models.RegimeStagnant:    25,
}

const changeScoreNeutral = 50

// Indicator weights. When foot-traffic data is absent the remaining weights
// renormalize so the composite still spans the full 0-100 range.
const (
	weightSalesFull   = 0.35
	weightChangeFull  = 0.30
	weightTrafficFull = 0.35

	weightSalesNoTraffic  = 0.55
	weightChangeNoTraffic = 0.45
)

// ScoreVitality converts the municipal vitality record into a 0-100
// sub-score with dynamic re-weighting over the available indicators.
func ScoreVitality(m *models.VitalityMetrics) *models.VitalityAnalysis {
	salesScore := salesSubScore(m)
	changeScore := changeSubScore(m.ChangeIndex)

	trafficScore := 0
	hasTraffic := m.FootTraffic != nil
	if hasTraffic {
		trafficScore = Normalize(float64(*m.FootTraffic), footTrafficFloor, footTrafficCeiling, 100)
	}

	var composite float64
	if hasTraffic {
		composite = float64(salesScore)*weightSalesFull +
			float64(changeScore)*weightChangeFull +
			float64(trafficScore)*weightTrafficFull
	} else {
		composite = float64(salesScore)*weightSalesNoTraffic +
			float64(changeScore)*weightChangeNoTraffic
	}

	total := clampInt(int(math.Round(composite)), 0, 100)

	return &models.VitalityAnalysis{
		SalesScore:       salesScore,
		ChangeScore:      changeScore,
		FootTrafficScore: trafficScore,
		Score:            NewIndicatorScore(total),
		Details: models.VitalityDetails{
			QuarterlySales:  m.QuarterlySales,
			SalesCount:      m.SalesCount,
			CloseRate:       m.CloseRate,
			OpenRate:        m.OpenRate,
			PeakTime:        m.PeakTime,
			PeakDay:         m.PeakDay,
			DominantAgeBand: m.DominantAgeBand,
			FootTraffic:     m.FootTraffic,
			ResidentsNearby: m.ResidentsNearby,
		},
	}
}

func salesSubScore(m *models.VitalityMetrics) int {
	if m.SalesCount <= 0 {
		return 0
	}
	perStore := float64(m.QuarterlySales) / float64(m.SalesCount)
	return Normalize(perStore, salesFloorPerStore, salesCeilingPerStore, 100)
}

func changeSubScore(regime models.ChangeRegime) int {
	if score, ok := changeRegimeScores[regime]; ok {
		return score
	}
	return changeScoreNeutral
}
