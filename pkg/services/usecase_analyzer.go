package services

import (
	"fmt"
	"math"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

// UseCaseAnalyzer holds the stateless estimation helpers for a single use case.
type UseCaseAnalyzer interface {
	EstimateEffort(uc *models.UseCase) string
	AnalyzeComplexity(uc *models.UseCase) models.ComplexityAnalysis

	// CalculateROI returns ROI, payback period and a recommendation. cost and
	// annualBenefit must be finite and positive.
	CalculateROI(uc *models.UseCase, cost, annualBenefit float64) (models.ROIResult, error)
	EstimatePayback(cost, annualBenefit float64) (string, error)

	// GenerateRoadmap returns the four implementation phases. Only the second phase
	// depends on the use case.
	GenerateRoadmap(uc *models.UseCase) []models.RoadmapPhase
}

// ROI thresholds, in percent. Both are exclusive.
const (
	highlyRecommendedROI = 50.0
	recommendedROI       = 20.0
)

// Roadmap phase names.
const (
	PhaseDiscovery   = "Discovery & Planning"
	PhaseDevelopment = "Design & Development"
	PhaseDeployment  = "Deployment & Training"
	PhaseMonitoring  = "Monitoring & Optimization"
)

var effortByFeasibility = map[models.Feasibility]string{
	models.FeasibilityEasy:        "2-4 weeks",
	models.FeasibilityModerate:    "1-3 months",
	models.FeasibilityComplex:     "3-6 months",
	models.FeasibilityVeryComplex: "6+ months",
}

type useCaseAnalyzer struct{}

var _ UseCaseAnalyzer = useCaseAnalyzer{}

func NewUseCaseAnalyzer() UseCaseAnalyzer {
	return useCaseAnalyzer{}
}

func (useCaseAnalyzer) EstimateEffort(uc *models.UseCase) string {
	if effort, ok := effortByFeasibility[uc.Feasibility()]; ok {
		return effort
	}
	return "Unknown"
}

func (a useCaseAnalyzer) AnalyzeComplexity(uc *models.UseCase) models.ComplexityAnalysis {
	return models.ComplexityAnalysis{
		RequirementsCount: len(uc.Requirements),
		Feasibility:       uc.Feasibility(),
		EstimatedEffort:   a.EstimateEffort(uc),
	}
}

func (a useCaseAnalyzer) CalculateROI(uc *models.UseCase, cost, annualBenefit float64) (models.ROIResult, error) {
	if err := validateCostInputs(cost, annualBenefit); err != nil {
		return models.ROIResult{}, err
	}

	roi := (annualBenefit - cost) / cost * 100

	payback, err := a.EstimatePayback(cost, annualBenefit)
	if err != nil {
		return models.ROIResult{}, err
	}

	// Tiers compare the displayed (2dp) value: 15000/75000*100 is 20.000000000000004.
	rounded := math.Round(roi*100) / 100

	recommendation := models.RecommendationConsiderCarefully
	switch {
	case rounded > highlyRecommendedROI:
		recommendation = models.RecommendationHighlyRecommended
	case rounded > recommendedROI:
		recommendation = models.RecommendationRecommended
	}

	return models.ROIResult{
		ROI:            fmt.Sprintf("%.2f%%", roi),
		PaybackPeriod:  payback,
		Recommendation: recommendation,
	}, nil
}

func (useCaseAnalyzer) EstimatePayback(cost, annualBenefit float64) (string, error) {
	if err := validateCostInputs(cost, annualBenefit); err != nil {
		return "", err
	}
	months := cost / (annualBenefit / 12)
	return fmt.Sprintf("%.1f months", months), nil
}

func validateCostInputs(cost, annualBenefit float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		return fmt.Errorf("cost must be a positive number, got %v: %w", cost, apperrors.ErrInvalidCostInput)
	}
	if math.IsNaN(annualBenefit) || math.IsInf(annualBenefit, 0) || annualBenefit <= 0 {
		return fmt.Errorf("annual benefit must be a positive number, got %v: %w", annualBenefit, apperrors.ErrInvalidCostInput)
	}
	return nil
}

func (a useCaseAnalyzer) GenerateRoadmap(uc *models.UseCase) []models.RoadmapPhase {
	return []models.RoadmapPhase{
		{
			Name:     PhaseDiscovery,
			Duration: "2-4 weeks",
			Activities: []string{
				"Stakeholder interviews",
				"Requirements documentation",
				"Technical feasibility assessment",
				"Resource allocation",
			},
		},
		{
			Name:     PhaseDevelopment,
			Duration: a.EstimateEffort(uc),
			Activities: []string{
				"System architecture design",
				"Integration planning",
				"Development and testing",
				"Quality assurance",
			},
		},
		{
			Name:     PhaseDeployment,
			Duration: "2-3 weeks",
			Activities: []string{
				"Pilot deployment",
				"User training",
				"Performance monitoring",
				"Optimization",
			},
		},
		{
			Name:     PhaseMonitoring,
			Duration: "Ongoing",
			Activities: []string{
				"Performance tracking",
				"User feedback collection",
				"Continuous improvement",
				"Scaling strategy",
			},
		},
	}
}
