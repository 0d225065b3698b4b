package models

import (
	"encoding/json"
	"time"
)

// AnalysisStatus is the lifecycle state of an analysis request.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "PENDING"
	StatusProcessing AnalysisStatus = "PROCESSING"
	StatusCompleted  AnalysisStatus = "COMPLETED"
	StatusFailed     AnalysisStatus = "FAILED"
)

// IsTerminal reports whether the status is final.
func (s AnalysisStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ValidRadii are the supported analysis radii in meters.
var ValidRadii = []int{300, 500, 1000, 1500, 2000}

// ValidRadius reports whether r is one of the supported radii.
func ValidRadius(r int) bool {
	for _, v := range ValidRadii {
		if v == r {
			return true
		}
	}
	return false
}

// AnalysisRequest is a single site-analysis job. It is created PENDING by
// the API layer; the orchestrator moves it to PROCESSING and then to a
// terminal state.
type AnalysisRequest struct {
	ID           string          `json:"id"`
	Address      string          `json:"address"`
	IndustryCode string          `json:"industryCode"`
	IndustryName string          `json:"industryName"`
	RadiusM      int             `json:"radiusM"`
	Status       AnalysisStatus  `json:"status"`
	DistrictCode string          `json:"districtCode,omitempty"`
	AdminCode    string          `json:"adminCode,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	TotalScore   *int            `json:"totalScore,omitempty"`
	Breakdown    *ScoreBreakdown `json:"breakdown,omitempty"`
	Report       json.RawMessage `json:"report,omitempty"`
}
