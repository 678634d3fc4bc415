package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

// Export formats supported by UseCaseGenerator.Export.
const (
	ExportFormatJSON = "json"
	ExportFormatYAML = "yaml"
)

// Picker is a uniform random source used to choose among templates.
type Picker interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}

type randPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandPicker returns a Picker seeded with seed. Safe for concurrent use.
func NewRandPicker(seed int64) Picker {
	return &randPicker{rnd: rand.New(rand.NewSource(seed))}
}

func (p *randPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}

// UseCaseGenerator creates use cases from templates and keeps the session's collection.
type UseCaseGenerator interface {
	// GenerateForDomain picks a template for the domain and appends a new use case.
	// customChallenge is recorded in logs only.
	GenerateForDomain(domain, customChallenge string) (*models.UseCase, error)

	// Get returns the use case with the given ID.
	Get(id uuid.UUID) (*models.UseCase, error)

	// GetAll returns the collection in insertion order.
	GetAll() []*models.UseCase

	// GetByDomain returns the use cases of one domain in insertion order.
	GetByDomain(domain string) []*models.UseCase

	// GetTop returns up to count use cases ordered by score descending.
	// Equal scores keep insertion order.
	GetTop(count int) []*models.UseCase

	// Analyze aggregates the current collection.
	Analyze() models.PortfolioAnalysis

	// Export serializes the collection as "json" or "yaml".
	Export(format string) (string, error)
}

type useCaseGenerator struct {
	catalog   DomainCatalog
	templates TemplateLibrary
	picker    Picker
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.RWMutex
	useCases []*models.UseCase
}

var _ UseCaseGenerator = (*useCaseGenerator)(nil)

// GeneratorOption customizes a UseCaseGenerator.
type GeneratorOption func(*useCaseGenerator)

// WithPicker sets the template selection source.
func WithPicker(p Picker) GeneratorOption {
	return func(g *useCaseGenerator) { g.picker = p }
}

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *useCaseGenerator) { g.now = now }
}

// NewUseCaseGenerator creates an empty generator. Without options it picks templates
// with a time-seeded source and stamps use cases with the wall clock in UTC.
func NewUseCaseGenerator(catalog DomainCatalog, templates TemplateLibrary, logger *zap.Logger, opts ...GeneratorOption) UseCaseGenerator {
	g := &useCaseGenerator{
		catalog:   catalog,
		templates: templates,
		picker:    NewRandPicker(time.Now().UnixNano()),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.Named("usecase-generator"),
		useCases:  make([]*models.UseCase, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *useCaseGenerator) GenerateForDomain(domain, customChallenge string) (*models.UseCase, error) {
	if _, ok := g.catalog.Lookup(domain); !ok {
		return nil, &apperrors.DomainNotFoundError{Name: domain}
	}

	candidates := g.templates.TemplatesFor(domain)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("domain %q: %w", domain, apperrors.ErrNoTemplatesAvailable)
	}

	tpl := candidates[g.picker.Intn(len(candidates))]
	uc := models.NewUseCaseAt(g.now(), tpl.Title, domain, tpl.Description,
		append([]string{}, tpl.Benefits...),
		append([]string{}, tpl.Requirements...),
	)
	uc.SetPriority(tpl.Priority).SetFeasibility(tpl.Feasibility)

	g.mu.Lock()
	g.useCases = append(g.useCases, uc)
	g.mu.Unlock()

	fields := []zap.Field{
		zap.String("use_case_id", uc.ID.String()),
		zap.String("domain", domain),
		zap.String("title", uc.Title),
	}
	if customChallenge != "" {
		fields = append(fields, zap.String("custom_challenge", customChallenge))
	}
	g.logger.Debug("Generated use case", fields...)

	return uc, nil
}

func (g *useCaseGenerator) Get(id uuid.UUID) (*models.UseCase, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, uc := range g.useCases {
		if uc.ID == id {
			return uc, nil
		}
	}
	return nil, fmt.Errorf("use case %s: %w", id, apperrors.ErrNotFound)
}

func (g *useCaseGenerator) GetAll() []*models.UseCase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot()
}

// snapshot copies the collection. Caller must hold g.mu.
func (g *useCaseGenerator) snapshot() []*models.UseCase {
	out := make([]*models.UseCase, len(g.useCases))
	copy(out, g.useCases)
	return out
}

func (g *useCaseGenerator) GetByDomain(domain string) []*models.UseCase {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*models.UseCase, 0)
	for _, uc := range g.useCases {
		if uc.Domain == domain {
			out = append(out, uc)
		}
	}
	return out
}

func (g *useCaseGenerator) GetTop(count int) []*models.UseCase {
	if count <= 0 {
		return []*models.UseCase{}
	}

	g.mu.RLock()
	sorted := g.snapshot()
	scores := make(map[*models.UseCase]float64, len(sorted))
	for _, uc := range sorted {
		scores[uc] = uc.CalculateScore()
	}
	g.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return scores[sorted[i]] > scores[sorted[j]]
	})

	if count < len(sorted) {
		sorted = sorted[:count]
	}
	return sorted
}

func (g *useCaseGenerator) Analyze() models.PortfolioAnalysis {
	g.mu.RLock()
	defer g.mu.RUnlock()

	analysis := models.PortfolioAnalysis{
		TotalUseCases: len(g.useCases),
		ByDomain:      make(map[string]int),
		ByPriority:    make(map[string]int),
		ByFeasibility: make(map[string]int),
	}

	var total float64
	for _, uc := range g.useCases {
		analysis.ByDomain[uc.Domain]++
		analysis.ByPriority[string(uc.Priority())]++
		analysis.ByFeasibility[string(uc.Feasibility())]++
		total += uc.CalculateScore()
	}

	if analysis.TotalUseCases > 0 {
		analysis.AverageScore = total / float64(analysis.TotalUseCases)
	}
	return analysis
}

func (g *useCaseGenerator) Export(format string) (string, error) {
	g.mu.RLock()
	records := make([]models.UseCaseRecord, len(g.useCases))
	for i, uc := range g.useCases {
		records[i] = uc.ToRecord()
	}
	g.mu.RUnlock()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case ExportFormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal use cases: %w", err)
		}
		return string(data), nil
	case ExportFormatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return "", fmt.Errorf("failed to marshal use cases: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%q: %w", format, apperrors.ErrUnsupportedFormat)
	}
}
