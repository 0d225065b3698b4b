package models

import "math"

// Declared maxima of the five composite sub-indicators. They sum to 100.
const (
	MaxVitality    = 30.0
	MaxCompetition = 25.0
	MaxSurvival    = 20.0
	MaxResidential = 15.0
	MaxIncome      = 10.0
)

// ScoreBreakdown holds the five weighted sub-scores of the composite.
// Each value is bounded by its declared maximum.
type ScoreBreakdown struct {
	Vitality    float64 `json:"vitality"`
	Competition float64 `json:"competition"`
	Survival    float64 `json:"survival"`
	Residential float64 `json:"residential"`
	Income      float64 `json:"income"`
}

// Total returns the rounded sum of the sub-scores.
func (b ScoreBreakdown) Total() int {
	return int(math.Round(b.Vitality + b.Competition + b.Survival + b.Residential + b.Income))
}

// IndicatorGradeInfo is derived from a breakdown on demand; it is never
// persisted so it cannot drift from the breakdown it describes.
type IndicatorGradeInfo struct {
	Raw     float64 `json:"raw"`
	Max     float64 `json:"max"`
	Percent int     `json:"percent"`
	Grade   string  `json:"grade"`
}

// IndicatorScore is a 0-100 score with its letter grade.
type IndicatorScore struct {
	Score      int    `json:"score"`
	Grade      string `json:"grade"`
	GradeLabel string `json:"gradeLabel"`
}

// CompetitionAnalysis describes same-category competition around the site.
type CompetitionAnalysis struct {
	DensityMeters   float64        `json:"densityMeters"`
	DensityBaseline float64        `json:"densityBaseline"`
	TotalCount      int            `json:"totalCount"`
	DirectCount     int            `json:"directCount"`
	IndirectCount   int            `json:"indirectCount"`
	DirectRatio     float64        `json:"directRatio"`
	FranchiseCount  int            `json:"franchiseCount"`
	FranchiseRatio  float64        `json:"franchiseRatio"`
	FranchiseBrands []string       `json:"franchiseBrands"`
	Score           IndicatorScore `json:"score"`
}

// VitalityAnalysis describes the commercial vitality of the district.
type VitalityAnalysis struct {
	SalesScore       int             `json:"salesScore"`
	ChangeScore      int             `json:"changeScore"`
	FootTrafficScore int             `json:"footTrafficScore"`
	Score            IndicatorScore  `json:"score"`
	Details          VitalityDetails `json:"details"`
}

// VitalityDetails is the raw detail bag behind the vitality sub-scores.
type VitalityDetails struct {
	QuarterlySales   int64  `json:"quarterlySales"`
	SalesCount       int    `json:"salesCount"`
	CloseRate        float64 `json:"closeRate"`
	OpenRate         float64 `json:"openRate"`
	PeakTime         string `json:"peakTime,omitempty"`
	PeakDay          string `json:"peakDay,omitempty"`
	DominantAgeBand  string `json:"dominantAgeBand,omitempty"`
	FootTraffic      *int64 `json:"footTraffic,omitempty"`
	ResidentsNearby  *int64 `json:"residentsNearby,omitempty"`
}

// InsightKind distinguishes narrative items that explain a score from
// purely contextual items that never feed back into scoring.
type InsightKind string

const (
	InsightScoring InsightKind = "scoring"
	InsightContext InsightKind = "context"
)

// Insight is a single narrative item emitted by the rule layer.
type Insight struct {
	Icon   string      `json:"icon"`
	Text   string      `json:"text"`
	Detail string      `json:"detail,omitempty"`
	Kind   InsightKind `json:"kind"`
}

// AggregatedResult is the serializable output of one analysis run: the raw
// per-source metrics plus the derived analyses and the composite score.
// Downstream report rendering consumes it read-only.
type AggregatedResult struct {
	Business         *BusinessMetrics     `json:"business,omitempty"`
	Property         *PropertyMetrics     `json:"property,omitempty"`
	Population       *PopulationMetrics   `json:"population,omitempty"`
	Poi              *PoiMetrics          `json:"poi,omitempty"`
	Franchise        *FranchiseMetrics    `json:"franchise,omitempty"`
	Vitality         *VitalityMetrics     `json:"vitality,omitempty"`
	Competition      *CompetitionAnalysis `json:"competition,omitempty"`
	VitalityAnalysis *VitalityAnalysis    `json:"vitalityAnalysis,omitempty"`
	Breakdown        ScoreBreakdown       `json:"breakdown"`
	TotalScore       int                  `json:"totalScore"`
	Insights         []Insight            `json:"insights"`
	MissingSources   []string             `json:"missingSources,omitempty"`
}
