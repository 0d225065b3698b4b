package scoring

import (
	"fmt"

	"storescout/internal/models"
)

// A Rule inspects the full aggregated analysis and returns zero or more
// narrative items. Rules are pure and independent of each other; adding a
// narrative dimension means adding one rule here.
type Rule func(r *models.AggregatedResult) []models.Insight

var rules = []Rule{
	densityRule,
	franchiseRule,
	vitalityRegimeRule,
	survivalRule,
	peakTimeRule,
	demographicsRule,
	propertyRule,
}

// Insights runs every rule in fixed order and concatenates their output.
func Insights(r *models.AggregatedResult) []models.Insight {
	out := []models.Insight{}
	for _, rule := range rules {
		out = append(out, rule(r)...)
	}
	return out
}

func densityRule(r *models.AggregatedResult) []models.Insight {
	c := r.Competition
	if c == nil || c.TotalCount == 0 {
		return nil
	}

	text := fmt.Sprintf("%d same-category businesses within the radius, one every %.0fm on average", c.TotalCount, c.DensityMeters)
	if c.DensityMeters < c.DensityBaseline {
		return []models.Insight{{
			Icon:   "⚠️",
			Text:   "The area is denser than the industry baseline",
			Detail: text,
			Kind:   models.InsightScoring,
		}}
	}
	return []models.Insight{{
		Icon:   "✅",
		Text:   "Competitor spacing is at or above the industry baseline",
		Detail: text,
		Kind:   models.InsightScoring,
	}}
}

func franchiseRule(r *models.AggregatedResult) []models.Insight {
	c := r.Competition
	if c == nil || len(c.FranchiseBrands) == 0 {
		return nil
	}

	var out []models.Insight
	out = append(out, models.Insight{
		Icon:   "🏪",
		Text:   fmt.Sprintf("%.0f%% of sampled places are franchise outlets", c.FranchiseRatio*100),
		Detail: fmt.Sprintf("brands detected: %v", c.FranchiseBrands),
		Kind:   models.InsightScoring,
	})
	if c.FranchiseRatio >= franchiseSaturate {
		out = append(out, models.Insight{
			Icon: "🚫",
			Text: "Franchise saturation leaves little room for independents",
			Kind: models.InsightScoring,
		})
	}
	return out
}

func vitalityRegimeRule(r *models.AggregatedResult) []models.Insight {
	if r.Vitality == nil || r.Vitality.ChangeIndex == "" {
		return nil
	}

	texts := map[models.ChangeRegime]string{
		models.RegimeDynamic:     "The district turns over quickly but keeps attracting new businesses",
		models.RegimeExpanding:   "The district is expanding with a low closure rate",
		models.RegimeContracting: "The district is contracting; closures outpace openings",
		models.RegimeStagnant:    "The district shows little commercial movement",
	}
	text, ok := texts[r.Vitality.ChangeIndex]
	if !ok {
		return nil
	}
	return []models.Insight{{
		Icon: "📈",
		Text: text,
		Kind: models.InsightScoring,
	}}
}

func survivalRule(r *models.AggregatedResult) []models.Insight {
	if r.Business == nil {
		return nil
	}
	return []models.Insight{{
		Icon: "🏁",
		Text: fmt.Sprintf("%.0f%% of businesses in this area survive the reference period", r.Business.SurvivalRate*100),
		Kind: models.InsightScoring,
	}}
}

// peakTimeRule and the rules below add context only; they never feed back
// into the numeric score.
func peakTimeRule(r *models.AggregatedResult) []models.Insight {
	if r.Vitality == nil || r.Vitality.PeakTime == "" {
		return nil
	}

	detail := ""
	if r.Vitality.PeakDay != "" {
		detail = fmt.Sprintf("busiest day: %s", r.Vitality.PeakDay)
	}
	return []models.Insight{{
		Icon:   "🕐",
		Text:   fmt.Sprintf("Sales peak around %s", r.Vitality.PeakTime),
		Detail: detail,
		Kind:   models.InsightContext,
	}}
}

func demographicsRule(r *models.AggregatedResult) []models.Insight {
	var out []models.Insight
	if r.Vitality != nil && r.Vitality.DominantAgeBand != "" {
		out = append(out, models.Insight{
			Icon: "👥",
			Text: fmt.Sprintf("The dominant customer age band is %s", r.Vitality.DominantAgeBand),
			Kind: models.InsightContext,
		})
	}
	if r.Population != nil && r.Population.ResidentPopulation > 0 {
		out = append(out, models.Insight{
			Icon: "🏘️",
			Text: fmt.Sprintf("%d residents live in the administrative district", r.Population.ResidentPopulation),
			Kind: models.InsightContext,
		})
	}
	return out
}

func propertyRule(r *models.AggregatedResult) []models.Insight {
	if r.Property == nil || r.Property.DealCount == 0 {
		return nil
	}
	return []models.Insight{{
		Icon:   "🏢",
		Text:   fmt.Sprintf("%d commercial property deals recorded recently", r.Property.DealCount),
		Detail: fmt.Sprintf("average deal amount %.0f", r.Property.AvgDealAmount),
		Kind:   models.InsightContext,
	}}
}
