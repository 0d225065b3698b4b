package models

// Aggregate records produced by the source adapters. They are immutable once
// fetched and owned by the orchestration run that requested them.

// BusinessMetrics summarizes business-registry records around the site.
type BusinessMetrics struct {
	StoreCount   int     `json:"storeCount"`
	OpenedCount  int     `json:"openedCount"`
	ClosedCount  int     `json:"closedCount"`
	SurvivalRate float64 `json:"survivalRate"` // fraction in [0,1]
}

// PropertyMetrics summarizes recent property-transaction records.
type PropertyMetrics struct {
	AvgDealAmount float64 `json:"avgDealAmount"` // thousands, per contract
	DealCount     int     `json:"dealCount"`
	AvgAreaSqm    float64 `json:"avgAreaSqm"`
}

// PopulationMetrics summarizes demographic statistics for the district.
type PopulationMetrics struct {
	ResidentPopulation int64   `json:"residentPopulation"`
	HouseholdCount     int64   `json:"householdCount"`
	AvgMonthlyIncome   float64 `json:"avgMonthlyIncome"` // thousands
	IncomeBand         string  `json:"incomeBand,omitempty"`
}

// Place is one point-of-interest hit from the keyword search.
type Place struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	DistanceMeters float64 `json:"distanceMeters"`
	Phone          string  `json:"phone,omitempty"`
	RoadAddress    string  `json:"roadAddress,omitempty"`
}

// PlaceDetail is the second-wave detail lookup for a top candidate.
type PlaceDetail struct {
	PlaceID     string `json:"placeId"`
	OpeningDate string `json:"openingDate,omitempty"`
	ReviewCount int    `json:"reviewCount"`
	Rating      float64 `json:"rating"`
}

// PoiMetrics is the result of the point-of-interest search: the upstream
// total plus a sampled page of places.
type PoiMetrics struct {
	TotalCount int           `json:"totalCount"`
	Places     []Place       `json:"places"`
	Details    []PlaceDetail `json:"details,omitempty"`
}

// FranchiseMetrics carries franchise-registry brand names for the industry.
type FranchiseMetrics struct {
	Brands []string `json:"brands"`
}

// ChangeRegime is the categorical change-index of a commercial district:
// the four combinations of high/low survival and high/low closure dynamics.
type ChangeRegime string

const (
	RegimeDynamic     ChangeRegime = "DYNAMIC"     // high survival, high closure: rapid turnover, strong demand
	RegimeExpanding   ChangeRegime = "EXPANDING"   // high survival, low closure
	RegimeContracting ChangeRegime = "CONTRACTING" // low survival, high closure
	RegimeStagnant    ChangeRegime = "STAGNANT"    // low survival, low closure
)

// VitalityMetrics is the municipal commercial-vitality record for a district.
// Foot traffic and resident counts are optional; not every district publishes
// them.
type VitalityMetrics struct {
	QuarterlySales  int64        `json:"quarterlySales"` // thousands
	SalesCount      int          `json:"salesCount"`     // transactions in the quarter
	StoreCount      int          `json:"storeCount"`
	ChangeIndex     ChangeRegime `json:"changeIndex,omitempty"`
	CloseRate       float64      `json:"closeRate"` // fraction in [0,1]
	OpenRate        float64      `json:"openRate"`
	PeakTime        string       `json:"peakTime,omitempty"`
	PeakDay         string       `json:"peakDay,omitempty"`
	DominantAgeBand string       `json:"dominantAgeBand,omitempty"`
	FootTraffic     *int64       `json:"footTraffic,omitempty"`
	ResidentsNearby *int64       `json:"residentsNearby,omitempty"`
}
