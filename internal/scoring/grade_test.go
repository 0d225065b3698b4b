package scoring

import (
	"testing"

	"storescout/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGrade_Boundaries(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{100, "A"},
		{80, "A"},
		{79, "B"},
		{60, "B"},
		{59, "C"},
		{40, "C"},
		{39, "D"},
		{20, "D"},
		{19, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.percent), "percent %d", tt.percent)
	}
}

func TestGrade_StableAcrossCalls(t *testing.T) {
	for p := 0; p <= 100; p++ {
		assert.Equal(t, Grade(p), Grade(p))
	}
}

func TestNormalize_Endpoints(t *testing.T) {
	assert.Equal(t, 0, Normalize(5, 10, 20, 100))
	assert.Equal(t, 0, Normalize(10, 10, 20, 100))
	assert.Equal(t, 100, Normalize(20, 10, 20, 100))
	assert.Equal(t, 100, Normalize(25, 10, 20, 100))
	assert.Equal(t, 50, Normalize(15, 10, 20, 100))
}

func TestNormalize_Monotone(t *testing.T) {
	prev := 0
	for v := 0.0; v <= 30; v += 0.5 {
		got := Normalize(v, 10, 20, 100)
		assert.GreaterOrEqual(t, got, prev, "v=%f", v)
		prev = got
	}
}

func TestNormalize_DegenerateRange(t *testing.T) {
	assert.Equal(t, 0, Normalize(5, 10, 10, 100))
}

func TestGradeInfo(t *testing.T) {
	info := GradeInfo(24, 30)
	assert.Equal(t, 80, info.Percent)
	assert.Equal(t, "A", info.Grade)
	assert.Equal(t, 24.0, info.Raw)
	assert.Equal(t, 30.0, info.Max)
}

func TestBreakdownGrades_FullMarksAllA(t *testing.T) {
	b := models.ScoreBreakdown{
		Vitality:    30,
		Competition: 25,
		Survival:    20,
		Residential: 15,
		Income:      10,
	}
	assert.Equal(t, 100, b.Total())

	grades := BreakdownGrades(b)
	assert.Len(t, grades, 5)
	for name, info := range grades {
		assert.Equal(t, 100, info.Percent, name)
		assert.Equal(t, "A", info.Grade, name)
	}
}

func TestNewIndicatorScore(t *testing.T) {
	s := NewIndicatorScore(65)
	assert.Equal(t, 65, s.Score)
	assert.Equal(t, "B", s.Grade)
	assert.Equal(t, "Good", s.GradeLabel)
}
