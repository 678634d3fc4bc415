package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

func TestDefaultDomainCatalog(t *testing.T) {
	catalog := NewDefaultDomainCatalog()

	domains := catalog.List()
	require.Len(t, domains, 6)
	assert.Equal(t, DomainCustomerService, domains[0].Name)
	assert.Equal(t, DomainProductDevelopment, domains[5].Name)

	d, ok := catalog.Lookup(DomainFinance)
	require.True(t, ok)
	assert.Equal(t, "Financial analysis and reporting", d.Description)
	assert.Len(t, d.CommonChallenges, 4)

	_, ok = catalog.Lookup("finance")
	assert.False(t, ok, "lookup is case sensitive")
}

func TestDefaultTemplateLibrary_CoversCatalog(t *testing.T) {
	lib := DefaultTemplateLibrary()
	counts := map[string]int{
		DomainCustomerService:    2,
		DomainSalesMarketing:     2,
		DomainOperations:         2,
		DomainFinance:            1,
		DomainHumanResources:     1,
		DomainProductDevelopment: 1,
	}
	for _, d := range DefaultBusinessDomains() {
		templates := lib.TemplatesFor(d.Name)
		assert.Len(t, templates, counts[d.Name], d.Name)
		for _, tpl := range templates {
			assert.True(t, tpl.Priority.IsValid(), tpl.Title)
			assert.True(t, tpl.Feasibility.IsValid(), tpl.Title)
			assert.NotEmpty(t, tpl.Benefits, tpl.Title)
			assert.NotEmpty(t, tpl.Requirements, tpl.Title)
		}
	}
	assert.Empty(t, lib.TemplatesFor("Legal"))
}

func TestDomainCatalog_ListIsCopy(t *testing.T) {
	catalog := NewDefaultDomainCatalog()

	list := catalog.List()
	list[0].Name = "Changed"

	assert.Equal(t, DomainCustomerService, catalog.List()[0].Name)
}

func TestNewDomainCatalog_RequiresTemplates(t *testing.T) {
	domains := append(DefaultBusinessDomains(), models.BusinessDomain{Name: "Legal"})

	_, err := NewDomainCatalog(domains, DefaultTemplateLibrary())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoTemplatesAvailable)
	assert.Contains(t, err.Error(), "Legal")
}

func TestNewDomainCatalog_RejectsDuplicates(t *testing.T) {
	domains := []models.BusinessDomain{{Name: DomainFinance}, {Name: DomainFinance}}

	_, err := NewDomainCatalog(domains, DefaultTemplateLibrary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
