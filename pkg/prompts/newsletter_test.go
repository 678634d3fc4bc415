package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

func TestBuildNewsletterPrompt(t *testing.T) {
	profile := &models.BusinessProfile{
		OwnerName:      "Dana Reyes",
		BusinessName:   "Harbor Bakery",
		Purpose:        "Neighbourhood bakery",
		TeamSize:       12,
		Locations:      []string{"Portland", "Salem"},
		LongTermGoal:   "Open a third location",
		ShortTermGoals: []string{"Cut food waste", "Grow catering", "Hire a shift lead"},
	}

	prompt := BuildNewsletterPrompt(profile)

	assert.Contains(t, prompt, "- Owner Name: Dana Reyes")
	assert.Contains(t, prompt, "- Business Name: Harbor Bakery")
	assert.Contains(t, prompt, "- Team Size: 12")
	assert.Contains(t, prompt, "- Locations: Portland; Salem")
	assert.Contains(t, prompt, "  1) Cut food waste")
	assert.Contains(t, prompt, "  3) Hire a shift lead")
	assert.Contains(t, prompt, `"newsletterSubject": "string"`)
	assert.Contains(t, prompt, "- exactly 3 useCases.")
	assert.True(t, strings.HasPrefix(prompt, "You are an AI strategy consultant"))
}

func TestBuildNewsletterPrompt_MissingGoals(t *testing.T) {
	prompt := BuildNewsletterPrompt(&models.BusinessProfile{ShortTermGoals: []string{"Only one"}})

	assert.Contains(t, prompt, "  1) Only one")
	assert.Contains(t, prompt, "  2) \n")
	assert.Contains(t, prompt, "  3) \n")
}
