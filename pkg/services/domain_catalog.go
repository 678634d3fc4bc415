package services

import (
	"fmt"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

// DomainCatalog is the read-only registry of business domains.
type DomainCatalog interface {
	// List returns the domains in catalog order.
	List() []models.BusinessDomain

	// Lookup returns the domain with the given name.
	Lookup(name string) (models.BusinessDomain, bool)
}

type domainCatalog struct {
	domains []models.BusinessDomain
	byName  map[string]int
}

var _ DomainCatalog = (*domainCatalog)(nil)

// NewDomainCatalog builds a catalog from the given domains. Every domain must have a
// unique name and at least one template in the library, so generation never has to
// pick from an empty set.
func NewDomainCatalog(domains []models.BusinessDomain, templates TemplateLibrary) (DomainCatalog, error) {
	c := &domainCatalog{
		domains: make([]models.BusinessDomain, 0, len(domains)),
		byName:  make(map[string]int, len(domains)),
	}

	for _, d := range domains {
		if _, exists := c.byName[d.Name]; exists {
			return nil, fmt.Errorf("duplicate domain %q", d.Name)
		}
		if templates != nil && len(templates.TemplatesFor(d.Name)) == 0 {
			return nil, fmt.Errorf("domain %q: %w", d.Name, apperrors.ErrNoTemplatesAvailable)
		}
		c.byName[d.Name] = len(c.domains)
		c.domains = append(c.domains, d)
	}

	return c, nil
}

// NewDefaultDomainCatalog returns the built-in catalog checked against the built-in templates.
func NewDefaultDomainCatalog() DomainCatalog {
	c, err := NewDomainCatalog(DefaultBusinessDomains(), DefaultTemplateLibrary())
	if err != nil {
		panic(fmt.Sprintf("default domain catalog is invalid: %v", err))
	}
	return c
}

func (c *domainCatalog) List() []models.BusinessDomain {
	out := make([]models.BusinessDomain, len(c.domains))
	copy(out, c.domains)
	return out
}

func (c *domainCatalog) Lookup(name string) (models.BusinessDomain, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.BusinessDomain{}, false
	}
	return c.domains[i], true
}
