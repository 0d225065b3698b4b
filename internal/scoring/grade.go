// Package scoring holds the pure scoring math of the analysis engine:
// competition and vitality sub-scores, the five-indicator composite with its
// regional correction, the shared grade mapping, and the insight rule layer.
package scoring

import (
	"math"

	"storescout/internal/models"
)

// Grade maps a percent value to its five-level letter grade. The same
// mapping is used for every indicator so grades are comparable across them.
func Grade(percent int) string {
	switch {
	case percent >= 80:
		return "A"
	case percent >= 60:
		return "B"
	case percent >= 40:
		return "C"
	case percent >= 20:
		return "D"
	default:
		return "F"
	}
}

// GradeLabel returns the human-readable label for a letter grade.
func GradeLabel(grade string) string {
	switch grade {
	case "A":
		return "Excellent"
	case "B":
		return "Good"
	case "C":
		return "Average"
	case "D":
		return "Caution"
	default:
		return "High Risk"
	}
}

// NewIndicatorScore packages a 0-100 score with its grade and label.
func NewIndicatorScore(score int) models.IndicatorScore {
	g := Grade(score)
	return models.IndicatorScore{
		Score:      score,
		Grade:      g,
		GradeLabel: GradeLabel(g),
	}
}

// Normalize maps v linearly from [min, max] onto [0, maxScore], clamping
// outside the range. It is monotonically non-decreasing in v.
func Normalize(v, min, max float64, maxScore int) int {
	if max <= min {
		return 0
	}
	if v <= min {
		return 0
	}
	if v >= max {
		return maxScore
	}
	return int(math.Round((v - min) / (max - min) * float64(maxScore)))
}

// GradeInfo derives the grade view of one indicator from its raw value and
// declared maximum.
func GradeInfo(raw, max float64) models.IndicatorGradeInfo {
	percent := 0
	if max > 0 {
		percent = int(math.Round(raw / max * 100))
	}
	return models.IndicatorGradeInfo{
		Raw:     raw,
		Max:     max,
		Percent: percent,
		Grade:   Grade(percent),
	}
}

// BreakdownGrades recomputes the per-indicator grade views from a breakdown.
// The views are derived on demand and never persisted.
func BreakdownGrades(b models.ScoreBreakdown) map[string]models.IndicatorGradeInfo {
	return map[string]models.IndicatorGradeInfo{
		"vitality":    GradeInfo(b.Vitality, models.MaxVitality),
		"competition": GradeInfo(b.Competition, models.MaxCompetition),
		"survival":    GradeInfo(b.Survival, models.MaxSurvival),
		"residential": GradeInfo(b.Residential, models.MaxResidential),
		"income":      GradeInfo(b.Income, models.MaxIncome),
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
