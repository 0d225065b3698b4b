package scoring

import (
	"testing"

	"storescout/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScoreComposite_BoundsRespected(t *testing.T) {
	b := ScoreComposite(CompositeInput{
		VitalityScore:    100,
		CompetitionScore: 100,
		SurvivalRate:     1.0,
		ResidentialScore: 100,
		IncomeScore:      100,
		Correction:       DefaultCorrection(),
	})

	assert.Equal(t, models.MaxVitality, b.Vitality)
	assert.Equal(t, models.MaxCompetition, b.Competition)
	assert.Equal(t, models.MaxSurvival, b.Survival)
	assert.Equal(t, models.MaxResidential, b.Residential)
	assert.Equal(t, models.MaxIncome, b.Income)
	assert.Equal(t, 100, b.Total())
}

func TestScoreComposite_NeutralDefaults(t *testing.T) {
	b := ScoreComposite(CompositeInput{
		VitalityScore:    NeutralIndicatorScore,
		CompetitionScore: NeutralIndicatorScore,
		SurvivalRate:     NeutralSurvivalRate,
		ResidentialScore: NeutralIndicatorScore,
		IncomeScore:      NeutralIndicatorScore,
		Correction:       DefaultCorrection(),
	})

	assert.Equal(t, 15.0, b.Vitality)
	assert.Equal(t, 12.5, b.Competition)
	assert.Equal(t, 10.0, b.Survival)
	assert.Equal(t, 7.5, b.Residential)
	assert.Equal(t, 5.0, b.Income)
	assert.Equal(t, 50, b.Total())
}

func TestScoreComposite_ScoresOutOfRangeClamped(t *testing.T) {
	b := ScoreComposite(CompositeInput{
		VitalityScore:    150,
		CompetitionScore: -20,
		SurvivalRate:     1.8,
		Correction:       DefaultCorrection(),
	})

	assert.Equal(t, models.MaxVitality, b.Vitality)
	assert.Equal(t, 0.0, b.Competition)
	assert.Equal(t, models.MaxSurvival, b.Survival)
}

func TestResidentialScore_Bounds(t *testing.T) {
	assert.Equal(t, 0, ResidentialScore(0))
	assert.Equal(t, 0, ResidentialScore(5000))
	assert.Equal(t, 100, ResidentialScore(150000))
	assert.Equal(t, 100, ResidentialScore(2000000))
}

func TestIncomeScore_Bounds(t *testing.T) {
	assert.Equal(t, 0, IncomeScore(1500))
	assert.Equal(t, 50, IncomeScore(4000))
	assert.Equal(t, 100, IncomeScore(9000))
}

func TestRegionalCorrection_ExpandingBonus(t *testing.T) {
	regional := &models.VitalityMetrics{
		ChangeIndex: models.RegimeExpanding,
		CloseRate:   0.10,
	}
	b := ScoreComposite(CompositeInput{
		VitalityScore:    60,
		CompetitionScore: 50,
		SurvivalRate:     0.6,
		Regional:         regional,
		Correction:       DefaultCorrection(),
	})

	// vitality 18 raw, x1.10 = 19.8
	assert.InDelta(t, 19.8, b.Vitality, 1e-9)
	// survival blend: 0.7*0.6 + 0.3*0.9 = 0.69 -> 13.8
	assert.InDelta(t, 13.8, b.Survival, 1e-9)
}

func TestRegionalCorrection_StableBonusSmaller(t *testing.T) {
	regional := &models.VitalityMetrics{ChangeIndex: models.RegimeDynamic}
	b := ScoreComposite(CompositeInput{
		VitalityScore: 60,
		SurvivalRate:  0.6,
		Regional:      regional,
		Correction:    DefaultCorrection(),
	})
	assert.InDelta(t, 18.9, b.Vitality, 1e-9) // 18 x 1.05
}

func TestRegionalCorrection_OtherRegimesUncorrected(t *testing.T) {
	for _, regime := range []models.ChangeRegime{models.RegimeContracting, models.RegimeStagnant} {
		regional := &models.VitalityMetrics{ChangeIndex: regime}
		b := ScoreComposite(CompositeInput{
			VitalityScore: 60,
			SurvivalRate:  0.6,
			Regional:      regional,
			Correction:    DefaultCorrection(),
		})
		assert.InDelta(t, 18.0, b.Vitality, 1e-9, string(regime))
	}
}

func TestRegionalCorrection_BonusNeverExceedsMax(t *testing.T) {
	regional := &models.VitalityMetrics{ChangeIndex: models.RegimeExpanding}
	b := ScoreComposite(CompositeInput{
		VitalityScore: 100,
		SurvivalRate:  1.0,
		Regional:      regional,
		Correction:    DefaultCorrection(),
	})
	assert.Equal(t, models.MaxVitality, b.Vitality)
	assert.LessOrEqual(t, b.Survival, models.MaxSurvival)
}

func TestScoreComposite_TotalIsRoundedSum(t *testing.T) {
	b := models.ScoreBreakdown{
		Vitality:    19.8,
		Competition: 12.5,
		Survival:    13.8,
		Residential: 7.5,
		Income:      5.0,
	}
	assert.Equal(t, 59, b.Total()) // 58.6 rounds to 59
}
