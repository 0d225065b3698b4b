package scoring

import (
	"math"
	"sort"
	"strings"

	"storescout/internal/models"
)

// industryProfile carries the per-industry reference data used by the
// competition pass: the keyword set that marks a direct competitor and the
// baseline spacing (meters) between same-category establishments.
type industryProfile struct {
	keywords        []string
	densityBaseline float64
}

var industryProfiles = map[string]industryProfile{
	"restaurant":  {keywords: []string{"restaurant", "diner", "eatery", "bbq", "noodle"}, densityBaseline: 45},
	"cafe":        {keywords: []string{"cafe", "coffee", "espresso", "tea"}, densityBaseline: 40},
	"chicken":     {keywords: []string{"chicken", "fried", "wing"}, densityBaseline: 60},
	"bakery":      {keywords: []string{"bakery", "bread", "pastry", "dessert"}, densityBaseline: 55},
	"convenience": {keywords: []string{"convenience", "mart", "grocery"}, densityBaseline: 70},
	"beauty":      {keywords: []string{"beauty", "hair", "salon", "nail"}, densityBaseline: 50},
	"fitness":     {keywords: []string{"fitness", "gym", "pilates", "yoga"}, densityBaseline: 120},
	"pharmacy":    {keywords: []string{"pharmacy", "drugstore"}, densityBaseline: 150},
	"bar":         {keywords: []string{"bar", "pub", "beer", "soju"}, densityBaseline: 65},
	"academy":     {keywords: []string{"academy", "tutoring", "institute"}, densityBaseline: 90},
}

const defaultDensityBaseline = 50.0

// Franchise U-curve band: a 20-40% franchise share among sampled places is
// treated as the validated-market optimum.
const (
	franchiseBandLow  = 0.20
	franchiseBandHigh = 0.40
	franchiseSaturate = 0.80
	franchiseFloor    = 40.0
)

// CompetitionInput is the raw material of the competition pass.
type CompetitionInput struct {
	RadiusM      int
	TotalCount   int
	Places       []models.Place
	IndustryCode string
	Brands       []string
}

// ScoreCompetition converts point-of-interest density and franchise-brand
// presence into a 0-100 competition sub-score with its grade.
func ScoreCompetition(in CompetitionInput) *models.CompetitionAnalysis {
	profile, ok := industryProfiles[in.IndustryCode]
	if !ok {
		profile = industryProfile{densityBaseline: defaultDensityBaseline}
	}

	density := 0.0
	if in.TotalCount > 0 {
		// Average spacing between same-category establishments in meters.
		r := float64(in.RadiusM)
		density = math.Sqrt(math.Pi * r * r / float64(in.TotalCount))
	}

	direct, indirect := splitCompetitors(in.Places, profile.keywords)

	catalog := NewBrandCatalog(in.Brands)
	franchiseCount, brandNames := detectFranchises(in.Places, catalog)

	franchiseRatio := 0.0
	if len(in.Places) > 0 {
		franchiseRatio = float64(franchiseCount) / float64(len(in.Places))
	}

	densityScore := densitySubScore(density, profile.densityBaseline)
	franchiseScore := FranchiseCurve(franchiseRatio)

	composite := int(math.Round(densityScore*0.90 + franchiseScore*0.10))
	composite = clampInt(composite, 0, 100)

	directRatio := 0.0
	if len(in.Places) > 0 {
		directRatio = float64(direct) / float64(len(in.Places))
	}

	return &models.CompetitionAnalysis{
		DensityMeters:   density,
		DensityBaseline: profile.densityBaseline,
		TotalCount:      in.TotalCount,
		DirectCount:     direct,
		IndirectCount:   indirect,
		DirectRatio:     directRatio,
		FranchiseCount:  franchiseCount,
		FranchiseRatio:  franchiseRatio,
		FranchiseBrands: brandNames,
		Score:           NewIndicatorScore(composite),
	}
}

// densitySubScore rewards sparse areas up to the baseline and penalizes
// over-dense areas sharply through the squared ratio.
func densitySubScore(density, baseline float64) float64 {
	if baseline <= 0 || density <= 0 {
		return 0
	}
	ratio := density / baseline
	return math.Min(100, ratio*ratio*100)
}

// FranchiseCurve scores a franchise share on the U-curve: moderate presence
// signals a validated market, saturation leaves no room for independents,
// near-zero presence signals unproven demand.
func FranchiseCurve(ratio float64) float64 {
	switch {
	case ratio >= franchiseSaturate:
		return 0
	case ratio > franchiseBandHigh:
		return 100 * (franchiseSaturate - ratio) / (franchiseSaturate - franchiseBandHigh)
	case ratio >= franchiseBandLow:
		return 100
	default:
		return franchiseFloor + (100-franchiseFloor)*ratio/franchiseBandLow
	}
}

func splitCompetitors(places []models.Place, keywords []string) (direct, indirect int) {
	for _, p := range places {
		cat := strings.ToLower(p.Category)
		isDirect := false
		for _, kw := range keywords {
			if strings.Contains(cat, kw) {
				isDirect = true
				break
			}
		}
		if isDirect {
			direct++
		} else {
			indirect++
		}
	}
	return direct, indirect
}

func detectFranchises(places []models.Place, catalog BrandCatalog) (int, []string) {
	count := 0
	seen := make(map[string]struct{})
	for _, p := range places {
		if brand, ok := catalog.Match(p.Name, p.Category); ok {
			count++
			seen[brand] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for brand := range seen {
		names = append(names, brand)
	}
	sort.Strings(names)
	return count, names
}
