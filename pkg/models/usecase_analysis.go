package models

// PortfolioAnalysis is an aggregate over the generated use cases at one point in time.
type PortfolioAnalysis struct {
	TotalUseCases int            `json:"totalUseCases"`
	ByDomain      map[string]int `json:"byDomain"`
	ByPriority    map[string]int `json:"byPriority"`
	ByFeasibility map[string]int `json:"byFeasibility"`
	AverageScore  float64        `json:"averageScore"`
}

// Recommendation is the investment verdict attached to an ROI calculation.
type Recommendation string

const (
	RecommendationHighlyRecommended Recommendation = "Highly Recommended"
	RecommendationRecommended       Recommendation = "Recommended"
	RecommendationConsiderCarefully Recommendation = "Consider Carefully"
)

// ROIResult is the formatted return on investment of a use case.
type ROIResult struct {
	ROI            string         `json:"roi"`
	PaybackPeriod  string         `json:"paybackPeriod"`
	Recommendation Recommendation `json:"recommendation"`
}

// ComplexityAnalysis summarizes how hard a use case is to implement.
type ComplexityAnalysis struct {
	RequirementsCount int         `json:"requirementsCount"`
	Feasibility       Feasibility `json:"feasibility"`
	EstimatedEffort   string      `json:"estimatedEffort"`
}

// RoadmapPhase is one step of an implementation roadmap.
type RoadmapPhase struct {
	Name       string   `json:"name"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
}
