// Package orchestrator runs the full analysis pipeline: fan out to the
// upstream sources, settle every fetch into an outcome, score what arrived
// and persist the result. A failed source never fails the analysis; it is
// replaced by a neutral default and reported in the missing-sources list.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storescout/internal/common/config"
	stderrors "storescout/internal/common/errors"
	"storescout/internal/common/logger"
	"storescout/internal/common/metrics"
	"storescout/internal/common/observability"
	"storescout/internal/models"
	"storescout/internal/scoring"
	"storescout/internal/sources"
)

// detailLookupCap bounds the second-wave place-detail fan-out to the
// nearest candidates. The detail endpoint is the slowest upstream.
const detailLookupCap = 5

// SourceProvider is what the orchestrator needs from the upstream adapter
// layer. *sources.Client satisfies it.
type SourceProvider interface {
	FetchBusiness(ctx context.Context, districtCode, industryCode string) (*models.BusinessMetrics, error)
	FetchProperty(ctx context.Context, districtCode, period string) (*models.PropertyMetrics, error)
	FetchPopulation(ctx context.Context, adminCode string) (*models.PopulationMetrics, error)
	SearchPlaces(ctx context.Context, address string, radiusM int, keyword string) (*models.PoiMetrics, error)
	FetchPlaceDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error)
	FetchFranchiseBrands(ctx context.Context, industryCode string) (*models.FranchiseMetrics, error)
	FetchVitality(ctx context.Context, districtCode, quarter string) (*models.VitalityMetrics, error)
}

// Updater persists analysis state transitions. The store layer implements
// it against postgres; tests swap in a recorder.
type Updater interface {
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// Orchestrator coordinates one analysis end to end.
type Orchestrator struct {
	sources    SourceProvider
	updater    Updater
	correction scoring.CorrectionConfig
	obs        *observability.Observability
	logger     logger.Logger

	// now is swapped in tests to pin the reference period.
	now func() time.Time
}

// New builds an orchestrator. obs may be nil when the metric pipeline is
// not wired, for instance in tests.
func New(p SourceProvider, u Updater, cfg config.ScoringConfig, obs *observability.Observability, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		sources: p,
		updater: u,
		correction: scoring.CorrectionConfig{
			StableRegimeBonus:    cfg.StableRegimeBonus,
			ExpandingRegimeBonus: cfg.ExpandingRegimeBonus,
			SurvivalBlendWeight:  cfg.SurvivalBlendWeight,
		},
		obs:    obs,
		logger: log,
		now:    time.Now,
	}
}

// Process drives the request through its lifecycle. It is intended to run
// in its own goroutine after the API layer persisted the PENDING row.
func (o *Orchestrator) Process(ctx context.Context, req *models.AnalysisRequest) {
	start := o.now()
	log := o.logger.WithFields(map[string]interface{}{
		"analysis_id": req.ID,
		"address":     req.Address,
		"industry":    req.IndustryCode,
		"radius_m":    req.RadiusM,
	})

	if err := o.updater.Update(ctx, req.ID, map[string]interface{}{
		"status": string(models.StatusProcessing),
	}); err != nil {
		log.WithError(err).Error("failed to mark analysis processing", nil)
	}

	result, err := o.RunAnalysis(ctx, req)
	status := models.StatusCompleted
	fields := map[string]interface{}{}

	if err != nil {
		status = models.StatusFailed
		fields["error_detail"] = err.Error()
		log.WithError(err).Error("analysis failed", nil)
	} else {
		report, mErr := json.Marshal(result)
		if mErr != nil {
			status = models.StatusFailed
			fields["error_detail"] = mErr.Error()
			log.WithError(mErr).Error("failed to serialize report", nil)
		} else {
			fields["total_score"] = result.TotalScore
			fields["report"] = report
			log.Info("analysis completed", map[string]interface{}{
				"total_score":     result.TotalScore,
				"missing_sources": len(result.MissingSources),
			})
		}
	}

	fields["status"] = string(status)
	if err := o.updater.Update(ctx, req.ID, fields); err != nil {
		log.WithError(err).Error("failed to persist analysis result", nil)
	}

	elapsed := o.now().Sub(start)
	metrics.AnalysesCompleted.WithLabelValues(string(status)).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(status)).Observe(elapsed.Seconds())
	if o.obs != nil {
		o.obs.RecordAnalysisProcessed(ctx, string(status))
		o.obs.RecordAnalysisDuration(ctx, elapsed, string(status))
	}
}

// RunAnalysis executes the two fetch waves and the scoring passes and
// returns the aggregated report. Only invalid input is a hard error;
// source failures degrade to neutral defaults.
func (o *Orchestrator) RunAnalysis(ctx context.Context, req *models.AnalysisRequest) (*models.AggregatedResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	outcomes := o.fetchAll(ctx, req)
	o.fetchDetails(ctx, outcomes)

	return o.score(req, outcomes), nil
}

// sourceOutcomes holds the settled first-wave fetches.
type sourceOutcomes struct {
	business   sources.Outcome[*models.BusinessMetrics]
	property   sources.Outcome[*models.PropertyMetrics]
	population sources.Outcome[*models.PopulationMetrics]
	poi        sources.Outcome[*models.PoiMetrics]
	franchise  sources.Outcome[*models.FranchiseMetrics]
	vitality   sources.Outcome[*models.VitalityMetrics]
}

// fetchAll fans out to all six sources concurrently and waits for every
// outcome to settle.
func (o *Orchestrator) fetchAll(ctx context.Context, req *models.AnalysisRequest) *sourceOutcomes {
	out := &sourceOutcomes{}
	period := o.now().Format("200601")
	quarter := currentQuarter(o.now())

	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		out.business = sources.Settle(o.sources.FetchBusiness(ctx, req.DistrictCode, req.IndustryCode))
	}()
	go func() {
		defer wg.Done()
		out.property = sources.Settle(o.sources.FetchProperty(ctx, req.DistrictCode, period))
	}()
	go func() {
		defer wg.Done()
		out.population = sources.Settle(o.sources.FetchPopulation(ctx, req.AdminCode))
	}()
	go func() {
		defer wg.Done()
		out.poi = sources.Settle(o.sources.SearchPlaces(ctx, req.Address, req.RadiusM, req.IndustryName))
	}()
	go func() {
		defer wg.Done()
		out.franchise = sources.Settle(o.sources.FetchFranchiseBrands(ctx, req.IndustryCode))
	}()
	go func() {
		defer wg.Done()
		out.vitality = sources.Settle(o.sources.FetchVitality(ctx, req.DistrictCode, quarter))
	}()

	wg.Wait()
	return out
}

// fetchDetails runs the second wave: detail lookups for the nearest
// candidates from the keyword search. Individual detail failures are
// dropped; the details list is best-effort enrichment.
func (o *Orchestrator) fetchDetails(ctx context.Context, out *sourceOutcomes) {
	poi, ok := out.poi.Get()
	if !ok || len(poi.Places) == 0 {
		return
	}

	candidates := make([]models.Place, len(poi.Places))
	copy(candidates, poi.Places)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})
	if len(candidates) > detailLookupCap {
		candidates = candidates[:detailLookupCap]
	}

	details := make([]*models.PlaceDetail, len(candidates))
	var wg sync.WaitGroup
	for i, p := range candidates {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			d, err := o.sources.FetchPlaceDetail(ctx, id)
			if err != nil {
				o.logger.WithError(err).Warn("place detail lookup failed", map[string]interface{}{
					"place_id": id,
				})
				return
			}
			details[i] = d
		}(i, p.ID)
	}
	wg.Wait()

	for _, d := range details {
		if d != nil {
			poi.Details = append(poi.Details, *d)
		}
	}
}

// score runs the derivation passes over whatever arrived and assembles the
// aggregated result. Missing sources contribute their neutral defaults.
func (o *Orchestrator) score(req *models.AnalysisRequest, out *sourceOutcomes) *models.AggregatedResult {
	r := &models.AggregatedResult{}
	missing := map[string]string{}

	if v, ok := out.business.Get(); ok {
		r.Business = v
	} else {
		missing[sources.SourceBusiness] = out.business.Reason()
	}
	if v, ok := out.property.Get(); ok {
		r.Property = v
	} else {
		missing[sources.SourceProperty] = out.property.Reason()
	}
	if v, ok := out.population.Get(); ok {
		r.Population = v
	} else {
		missing[sources.SourcePopulation] = out.population.Reason()
	}
	if v, ok := out.poi.Get(); ok {
		r.Poi = v
	} else {
		missing[sources.SourcePoi] = out.poi.Reason()
	}
	if v, ok := out.franchise.Get(); ok {
		r.Franchise = v
	} else {
		missing[sources.SourceFranchise] = out.franchise.Reason()
	}
	if v, ok := out.vitality.Get(); ok {
		r.Vitality = v
	} else {
		missing[sources.SourceVitality] = out.vitality.Reason()
	}

	in := scoring.CompositeInput{
		VitalityScore:    scoring.NeutralIndicatorScore,
		CompetitionScore: scoring.NeutralIndicatorScore,
		SurvivalRate:     scoring.NeutralSurvivalRate,
		ResidentialScore: scoring.NeutralIndicatorScore,
		IncomeScore:      scoring.NeutralIndicatorScore,
		Regional:         r.Vitality,
		Correction:       o.correction,
	}

	if r.Poi != nil {
		var brands []string
		if r.Franchise != nil {
			brands = r.Franchise.Brands
		}
		r.Competition = scoring.ScoreCompetition(scoring.CompetitionInput{
			RadiusM:      req.RadiusM,
			TotalCount:   r.Poi.TotalCount,
			Places:       r.Poi.Places,
			IndustryCode: req.IndustryCode,
			Brands:       brands,
		})
		in.CompetitionScore = r.Competition.Score.Score
	}

	if r.Vitality != nil {
		r.VitalityAnalysis = scoring.ScoreVitality(r.Vitality)
		in.VitalityScore = r.VitalityAnalysis.Score.Score
	}

	if r.Business != nil {
		in.SurvivalRate = r.Business.SurvivalRate
	}
	if r.Population != nil {
		in.ResidentialScore = scoring.ResidentialScore(r.Population.ResidentPopulation)
		in.IncomeScore = scoring.IncomeScore(r.Population.AvgMonthlyIncome)
	}

	r.Breakdown = scoring.ScoreComposite(in)
	r.TotalScore = r.Breakdown.Total()
	r.MissingSources = sortedKeys(missing)
	r.Insights = scoring.Insights(r)

	if len(missing) > 0 {
		o.logger.Warn("analysis scored with missing sources", map[string]interface{}{
			"analysis_id": req.ID,
			"missing":     strings.Join(r.MissingSources, ","),
		})
	}

	return r
}

func validateRequest(req *models.AnalysisRequest) error {
	switch {
	case strings.TrimSpace(req.Address) == "":
		return stderrors.NewAnalysisInvalidInputError("address is required")
	case strings.TrimSpace(req.IndustryCode) == "":
		return stderrors.NewAnalysisInvalidInputError("industryCode is required")
	case !models.ValidRadius(req.RadiusM):
		return stderrors.NewAnalysisInvalidInputError(
			fmt.Sprintf("radius %d is not one of %v", req.RadiusM, models.ValidRadii))
	}
	return nil
}

// currentQuarter formats the reference quarter, e.g. 2026Q3. Upstream
// publishes one quarter behind, so the previous quarter is requested.
func currentQuarter(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	year := t.Year()
	q--
	if q == 0 {
		q = 4
		year--
	}
	return fmt.Sprintf("%dQ%d", year, q)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
