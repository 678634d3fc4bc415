package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the business priority of a use case.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid returns true if the priority is one of the known levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Weight returns the score weight of the priority. Unknown values weigh as medium.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 2
	}
}

// Feasibility is the implementation difficulty band of a use case.
// Easier bands contribute more to the score.
type Feasibility string

const (
	FeasibilityEasy        Feasibility = "easy"
	FeasibilityModerate    Feasibility = "moderate"
	FeasibilityComplex     Feasibility = "complex"
	FeasibilityVeryComplex Feasibility = "very-complex"
)

// IsValid returns true if the feasibility is one of the known bands.
func (f Feasibility) IsValid() bool {
	switch f {
	case FeasibilityEasy, FeasibilityModerate, FeasibilityComplex, FeasibilityVeryComplex:
		return true
	default:
		return false
	}
}

// Weight returns the score weight of the feasibility. Unknown values weigh as moderate.
func (f Feasibility) Weight() float64 {
	switch f {
	case FeasibilityEasy:
		return 4
	case FeasibilityModerate:
		return 3
	case FeasibilityComplex:
		return 2
	case FeasibilityVeryComplex:
		return 1
	default:
		return 3
	}
}

// Score weights.
const (
	priorityScoreFactor    = 0.4
	feasibilityScoreFactor = 0.3
	benefitScoreFactor     = 0.3
)

// UseCase is a proposed AI-adoption opportunity for a business domain.
// Priority and Feasibility only change through SetPriority and SetFeasibility,
// which keep them inside their enumerations.
type UseCase struct {
	ID           uuid.UUID
	Title        string
	Domain       string
	Description  string
	Benefits     []string
	Requirements []string
	CreatedAt    time.Time

	priority    Priority
	feasibility Feasibility
}

// NewUseCase creates a use case with a fresh ID, the current time, medium priority
// and moderate feasibility. Inputs are not validated.
func NewUseCase(title, domain, description string, benefits, requirements []string) *UseCase {
	return NewUseCaseAt(time.Now().UTC(), title, domain, description, benefits, requirements)
}

// NewUseCaseAt is NewUseCase with an explicit creation time.
func NewUseCaseAt(createdAt time.Time, title, domain, description string, benefits, requirements []string) *UseCase {
	if benefits == nil {
		benefits = []string{}
	}
	if requirements == nil {
		requirements = []string{}
	}
	return &UseCase{
		ID:           newUseCaseID(),
		Title:        title,
		Domain:       domain,
		Description:  description,
		Benefits:     benefits,
		Requirements: requirements,
		CreatedAt:    createdAt,
		priority:     PriorityMedium,
		feasibility:  FeasibilityModerate,
	}
}

// newUseCaseID returns a time-ordered UUIDv7, falling back to a random UUIDv4
// if the v7 generator fails.
func newUseCaseID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Priority returns the current priority.
func (u *UseCase) Priority() Priority {
	return u.priority
}

// Feasibility returns the current feasibility.
func (u *UseCase) Feasibility() Feasibility {
	return u.feasibility
}

// SetPriority assigns p if it is a valid priority and ignores it otherwise.
func (u *UseCase) SetPriority(p Priority) *UseCase {
	if p.IsValid() {
		u.priority = p
	}
	return u
}

// SetFeasibility assigns f if it is a valid feasibility and ignores it otherwise.
func (u *UseCase) SetFeasibility(f Feasibility) *UseCase {
	if f.IsValid() {
		u.feasibility = f
	}
	return u
}

// CalculateScore derives the ranking score from priority, feasibility and the
// number of listed benefits. The benefit term has no ceiling.
func (u *UseCase) CalculateScore() float64 {
	return u.priority.Weight()*priorityScoreFactor +
		u.feasibility.Weight()*feasibilityScoreFactor +
		float64(len(u.Benefits))*benefitScoreFactor
}

// UseCaseRecord is the serializable snapshot of a UseCase.
type UseCaseRecord struct {
	ID           uuid.UUID   `json:"id" yaml:"id"`
	Title        string      `json:"title" yaml:"title"`
	Domain       string      `json:"domain" yaml:"domain"`
	Description  string      `json:"description" yaml:"description"`
	Benefits     []string    `json:"benefits" yaml:"benefits"`
	Requirements []string    `json:"requirements" yaml:"requirements"`
	Priority     Priority    `json:"priority" yaml:"priority"`
	Feasibility  Feasibility `json:"feasibility" yaml:"feasibility"`
	Score        float64     `json:"score" yaml:"score"`
	CreatedAt    time.Time   `json:"createdAt" yaml:"createdAt"`
}

// ToRecord snapshots the use case. The score is computed at call time.
func (u *UseCase) ToRecord() UseCaseRecord {
	return UseCaseRecord{
		ID:           u.ID,
		Title:        u.Title,
		Domain:       u.Domain,
		Description:  u.Description,
		Benefits:     append([]string{}, u.Benefits...),
		Requirements: append([]string{}, u.Requirements...),
		Priority:     u.priority,
		Feasibility:  u.feasibility,
		Score:        u.CalculateScore(),
		CreatedAt:    u.CreatedAt,
	}
}

// UseCaseTemplate is a static candidate definition consulted when generating a use case.
type UseCaseTemplate struct {
	Title        string
	Description  string
	Benefits     []string
	Requirements []string
	Priority     Priority
	Feasibility  Feasibility
}

// BusinessDomain is a named business functional area with its known challenges.
type BusinessDomain struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	CommonChallenges []string `json:"commonChallenges"`
}
